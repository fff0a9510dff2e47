package service

import "testing"

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name          string
		clientBaseURL string
		origin        string
		referer       string
		want          string
	}{
		{
			name:          "配置地址优先于一切请求头",
			clientBaseURL: "https://app.example.com",
			origin:        "https://evil.example.org",
			referer:       "https://evil.example.org/page",
			want:          "https://app.example.com/dashboard",
		},
		{
			name:   "无配置时取 Origin 头",
			origin: "https://app.example.com",
			want:   "https://app.example.com/dashboard",
		},
		{
			name:    "无配置无 Origin 时取 Referer 的 origin 部分",
			referer: "https://app.example.com/login?next=abc",
			want:    "https://app.example.com/dashboard",
		},
		{
			name:    "Origin 优先于 Referer",
			origin:  "https://a.example.com",
			referer: "https://b.example.com/login",
			want:    "https://a.example.com/dashboard",
		},
		{
			name:    "Referer 不是合法 URL 时落到回退地址",
			referer: "not a url",
			want:    FallbackOrigin + "/dashboard",
		},
		{
			name:    "Referer 缺少协议时落到回退地址",
			referer: "app.example.com/login",
			want:    FallbackOrigin + "/dashboard",
		},
		{
			name: "全部为空时落到回退地址",
			want: FallbackOrigin + "/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRedirect(tt.clientBaseURL, tt.origin, tt.referer)
			if got != tt.want {
				t.Errorf("期望 %s，实际 %s", tt.want, got)
			}
		})
	}
}
