package model

import (
	"errors"
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
)

const (
	ErrorParams        = 100010
	ErrorEmptyId       = 100011
	ErrorNewRepo       = 100012
	ErrorDB            = 100015
	ErrorLLM           = 100016
	ErrorEmbedding     = 100017
	ErrorCache         = 100018
	ErrorIntentHandler = 100019
	// ErrorWorkoutNotFound 目标记录定位失败，编排层据此走候选列表恢复
	ErrorWorkoutNotFound = 100020
)

var ErrorMessages = map[int]string{
	ErrorParams:          "参数错误",
	ErrorEmptyId:         "id 为空",
	ErrorNewRepo:         "新建 repo 失败",
	ErrorDB:              "db error",
	ErrorLLM:             "大模型调用失败",
	ErrorEmbedding:       "向量化失败",
	ErrorCache:           "缓存操作失败",
	ErrorIntentHandler:   "意图处理失败",
	ErrorWorkoutNotFound: "目标记录未找到",
}

type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	InnerError error  `json:"inner_error"`
}

func (err Error) Error() string {
	return err.Message
}

func (err Error) String() string {
	return err.InnerError.Error()
}

func NewError(code int, innerError error) *Error {
	if innerError != nil {
		var re = regexp.MustCompile(`[\n\t]+`)
		innerErrorString := re.ReplaceAllString(fmt.Sprintf("%+v", innerError), " ")
		log.Errorf("NewError code:%d, message:%s, innerError:%+v\n", code, ErrorMessages[code], innerErrorString)
	}
	return &Error{
		Code:       code,
		Message:    ErrorMessages[code],
		InnerError: nil,
	}
}

func NewErrorWithMessage(code int, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		InnerError: nil,
	}
}

// IsErrorCode 判断 err 是否为指定编码的业务错误
func IsErrorCode(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
