// Package handler 已补全意图的终结执行器
package handler

import (
	"context"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"
)

// IntentHandler 执行一个已补全的意图，返回给用户的回复文本
type IntentHandler interface {
	Handle(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields) (string, error)
}

// Factory 按意图类型分发执行器
type Factory struct {
	handlers map[constant.IntentType]IntentHandler
}

func NewFactory(repositoryFactory factory.Factory, workouts *workoututil.Service) *Factory {
	return &Factory{
		handlers: map[constant.IntentType]IntentHandler{
			constant.IntentTypeCreate: &CreateHandler{repositoryFactory: repositoryFactory, workouts: workouts},
			constant.IntentTypeUpdate: &UpdateHandler{repositoryFactory: repositoryFactory, workouts: workouts},
		},
	}
}

// Handler 取意图类型对应的执行器，没有对应执行器时返回错误
func (f *Factory) Handler(intentType constant.IntentType) (IntentHandler, error) {
	h, ok := f.handlers[intentType]
	if !ok {
		return nil, model.NewErrorWithMessage(model.ErrorIntentHandler,
			"no handler for intent type: "+intentType.String())
	}
	return h, nil
}
