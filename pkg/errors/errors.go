package errors

import "errors"

// ErrUnsupportedQueryShape 存储层拒绝复合等值查询（如缺少复合索引）。
// 调用方收到该错误后应退化为单条件查询，并在内存中补齐剩余过滤。
var ErrUnsupportedQueryShape = errors.New("存储层不支持该查询条件组合")
