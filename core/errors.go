package core

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindConfig       ErrorKind = "config"       // 缺少密钥等配置问题，立即失败
	KindPrecondition ErrorKind = "precondition" // 调用参数缺失或非法
	KindUpstream     ErrorKind = "upstream"     // 外部 HTTP 服务失败
	KindParse        ErrorKind = "parse"        // 模型返回无法解析或不合规
	KindRender       ErrorKind = "render"       // 浏览器渲染失败
)

// Error 带分类的错误
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return string(e.Kind) + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewError 创建分类错误
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf 以格式化消息创建分类错误
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// IsKind 判断错误链中是否包含指定分类
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

var (
	ErrMissingParams            = Errorf(KindPrecondition, "缺少必要参数")
	ErrMissingURL               = Errorf(KindPrecondition, "缺少视频URL参数")
	ErrMissingMindmap           = Errorf(KindPrecondition, "缺少思维导图JSON参数")
	ErrSummarizationKeyMissing  = Errorf(KindConfig, "未设置BILIGPT_API_KEY环境变量")
	ErrSummarizationUnsucceeded = Errorf(KindUpstream, "API请求失败")
)
