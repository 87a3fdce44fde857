package service

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// 用于 errors.Is 判断的哨兵错误
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

// 业务规则冲突的提示信息
const (
	MsgBudgetExists     = "Budget already created for this month"
	MsgNoPreviousBudget = "No previous budget to use"
	MsgBudgetNotFound   = "Budget not found"
	MsgEntryNotFound    = "Entry not found"
)

// Error 业务错误，Message 直接返回给调用方。
// 存储层错误不使用该类型，原样向上传递。
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is 同类别的业务错误视为相等
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf 返回错误的业务类别，非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
