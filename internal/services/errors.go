package services

import "errors"

var (
	ErrMissingCredential = errors.New("请先配置 API Key")
	ErrEmptyBrief        = errors.New("请输入报告需求")
	ErrSettingsSave      = errors.New("保存设置失败")
	// ErrSuperseded is returned by a generation replaced by a newer one.
	ErrSuperseded = errors.New("generation superseded")
	ErrCanceled   = errors.New("生成已取消")
)
