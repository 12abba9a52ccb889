// Package orchestrator 多轮对话的意图编排：检测、补槽、建议绕行与终结执行
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/RajoGon/ai-workout-assistant/constant"
	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/pkg/tools"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/service/chathistory"
	"github.com/RajoGon/ai-workout-assistant/service/classify"
	"github.com/RajoGon/ai-workout-assistant/service/fieldextract"
	"github.com/RajoGon/ai-workout-assistant/service/handler"
	"github.com/RajoGon/ai-workout-assistant/service/intentdetect"
	"github.com/RajoGon/ai-workout-assistant/service/ragchat"
	"github.com/RajoGon/ai-workout-assistant/service/ragdetect"
	"github.com/RajoGon/ai-workout-assistant/service/validation"
	"github.com/RajoGon/ai-workout-assistant/service/workoututil"

	log "github.com/sirupsen/logrus"
)

const (
	defaultRetrieveListLimit = 6
	defaultHistoryLimit      = 5
)

type Service struct {
	repositoryFactory factory.Factory
	classifier        *classify.Service
	detector          *intentdetect.Service
	extractor         *fieldextract.Service
	ragDetector       *ragdetect.Service
	ragChat           *ragchat.Service
	history           *chathistory.Service
	workouts          *workoututil.Service
	handlers          *handler.Factory
	retrieveListLimit int
	historyLimit      int
}

func NewService(
	repositoryFactory factory.Factory,
	classifier *classify.Service,
	detector *intentdetect.Service,
	extractor *fieldextract.Service,
	ragDetector *ragdetect.Service,
	ragChat *ragchat.Service,
	history *chathistory.Service,
	workouts *workoututil.Service,
	handlers *handler.Factory,
	retrieveListLimit, historyLimit int,
) *Service {
	if retrieveListLimit <= 0 {
		retrieveListLimit = defaultRetrieveListLimit
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{
		repositoryFactory: repositoryFactory,
		classifier:        classifier,
		detector:          detector,
		extractor:         extractor,
		ragDetector:       ragDetector,
		ragChat:           ragChat,
		history:           history,
		workouts:          workouts,
		handlers:          handlers,
		retrieveListLimit: retrieveListLimit,
		historyLimit:      historyLimit,
	}
}

// ProcessMessage 处理一轮用户消息，任何内部错误都降级为兜底道歉回复
func (s *Service) ProcessMessage(ctx context.Context, userID, chatID, prompt string) string {
	reply, err := s.process(ctx, userID, chatID, prompt)
	if err != nil {
		log.Errorf("agentic turn failed for chat %s: %v", chatID, err)
		return constant.ReplyGenericError
	}
	return reply
}

func (s *Service) process(ctx context.Context, userID, chatID, prompt string) (string, error) {
	intent, err := s.getActiveIntent(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	if intent != nil {
		return s.continueIntent(ctx, intent, prompt)
	}
	return s.startTurn(ctx, userID, chatID, prompt)
}

// startTurn 无开放意图：规则分流到 RAG 对话或意图检测
func (s *Service) startTurn(ctx context.Context, userID, chatID, prompt string) (string, error) {
	if s.classifier.Classify(prompt) == classify.CategoryRag {
		return s.ragChat.HybridConversation(ctx, userID, chatID, prompt, "", false)
	}

	intentType, fields, err := s.detector.Detect(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := s.appendMessage(ctx, userID, chatID, entity.ChatRoleUser, prompt, ""); err != nil {
		return "", err
	}

	// 识别不出意图时只澄清，不开意图
	if intentType == constant.IntentTypeUnknown {
		if err := s.appendMessage(ctx, userID, chatID, entity.ChatRoleAssistant, constant.ReplyUnknownIntent, ""); err != nil {
			return "", err
		}
		return constant.ReplyUnknownIntent, nil
	}

	missing, optional := validation.FindMissingFields(intentType, fields)

	intent, err := s.createIntent(ctx, userID, chatID, intentType, fields, missing, optional)
	if err != nil {
		return "", err
	}

	reply, err := s.processIntent(ctx, intent, fields, missing, optional)
	if err != nil {
		return "", err
	}
	if err := s.appendMessage(ctx, userID, chatID, entity.ChatRoleAssistant, reply, ""); err != nil {
		return "", err
	}
	return reply, nil
}

// continueIntent 有开放意图的后续轮：建议绕行、建议收割或普通补槽
func (s *Service) continueIntent(ctx context.Context, intent *entity.ChatIntent, prompt string) (string, error) {
	fields, err := model.DecodeWorkoutFields(intent.Metadata)
	if err != nil {
		return "", err
	}
	missing, err := model.DecodeStringList(intent.MissingFields)
	if err != nil {
		return "", err
	}
	intentType := constant.IntentType(intent.IntentType)

	// 求建议的消息绕行 RAG，不推进补槽；意图上下文随路携带并落库
	if s.ragDetector.ShouldUseRagMode(prompt) {
		optional, err := model.DecodeStringList(intent.OptionalFields)
		if err != nil {
			return "", err
		}
		intentContext := ragdetect.BuildIntentContext(intent, fields, missing, optional)
		if err := s.updateIntent(ctx, intent.ID, &model.UpdateChatIntentCondition{IntentContext: &intentContext}); err != nil {
			return "", err
		}
		return s.ragChat.HybridConversation(ctx, intent.UserID, intent.ChatID, prompt, intentContext, true)
	}

	confirmed, err := s.ragDetector.IsConfirmingSuggestion(ctx, intent.UserID, intent.ChatID, prompt)
	if err != nil {
		return "", err
	}

	if err := s.appendMessage(ctx, intent.UserID, intent.ChatID, entity.ChatRoleUser, prompt, ""); err != nil {
		return "", err
	}

	var extracted *model.WorkoutFields
	if confirmed {
		recent, err := s.history.GetRecent(ctx, intent.UserID, intent.ChatID, s.historyLimit)
		if err != nil {
			return "", err
		}
		suggested, err := s.extractor.ExtractSuggested(ctx, recent, intentType, missing)
		if err != nil {
			log.Warnf("suggested field harvest failed, falling back to extraction: %v", err)
		} else if !suggested.IsZero() {
			extracted = suggested
		}
	}
	if extracted == nil {
		extracted, err = s.extractor.Extract(ctx, prompt, fields)
		if err != nil {
			log.Warnf("continuation extraction failed for chat %s: %v", intent.ChatID, err)
			if err := s.appendMessage(ctx, intent.UserID, intent.ChatID, entity.ChatRoleAssistant, constant.ReplyContinuationError, ""); err != nil {
				return "", err
			}
			return constant.ReplyContinuationError, nil
		}
	}

	fields.Merge(extracted)
	fields.DeriveCompletion()

	missing, optional := validation.FindMissingFields(intentType, fields)
	if err := s.persistFields(ctx, intent, fields, missing, optional); err != nil {
		return "", err
	}

	reply, err := s.processIntent(ctx, intent, fields, missing, optional)
	if err != nil {
		return "", err
	}
	if err := s.appendMessage(ctx, intent.UserID, intent.ChatID, entity.ChatRoleAssistant, reply, ""); err != nil {
		return "", err
	}
	return reply, nil
}

// processIntent 根据缺失/可选字段状态推进意图：追问、可选字段确认或终结执行
func (s *Service) processIntent(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields, missing, optional []string) (string, error) {
	intentType := constant.IntentType(intent.IntentType)

	if len(missing) > 0 {
		switch intentType {
		case constant.IntentTypeRetrieve:
			// retrieve 不补槽，直接出最近记录
			return s.listWorkouts(ctx, intent)
		case constant.IntentTypeUpdate:
			// update 缺目标记录时不用文本追问，直接列候选让用户挑
			return s.askWhichWorkout(ctx, intent)
		}
		return askForMissingFields(intentType, missing), nil
	}

	if len(optional) > 0 && !fields.AskedOptional {
		return s.askOptionalFields(ctx, intent, fields, optional)
	}

	h, err := s.handlers.Handler(intentType)
	if err != nil {
		return "", err
	}
	reply, err := h.Handle(ctx, intent, fields)
	if err != nil {
		// 执行时才发现存下来的目标描述失效：清掉重新让用户挑
		if model.IsErrorCode(err, model.ErrorWorkoutNotFound) && intentType == constant.IntentTypeUpdate {
			return s.recoverWorkoutNotFound(ctx, intent, fields)
		}
		return "", err
	}
	return reply, nil
}

// askWhichWorkout update 尚未锁定目标记录：列出候选供选择，意图保持开放
func (s *Service) askWhichWorkout(ctx context.Context, intent *entity.ChatIntent) (string, error) {
	candidates, err := s.workouts.ListRecent(ctx, intent.UserID, s.retrieveListLimit)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return constant.ReplyNoWorkouts, nil
	}
	return updateCandidatePrompt(candidates), nil
}

func (s *Service) listWorkouts(ctx context.Context, intent *entity.ChatIntent) (string, error) {
	workouts, err := s.workouts.ListRecent(ctx, intent.UserID, s.retrieveListLimit)
	if err != nil {
		return "", err
	}

	fulfilled := true
	if err := s.updateIntent(ctx, intent.ID, &model.UpdateChatIntentCondition{Fulfilled: &fulfilled}); err != nil {
		return "", err
	}

	if len(workouts) == 0 {
		return constant.ReplyNoWorkouts, nil
	}
	return "Here are your recent workouts:\n" + workoututil.FormatNumberedList(workouts), nil
}

// askOptionalFields 必填已齐：update 先锁定目标记录，再给一次补充可选字段的机会
func (s *Service) askOptionalFields(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields, optional []string) (string, error) {
	intentType := constant.IntentType(intent.IntentType)

	if intentType == constant.IntentTypeUpdate {
		workout, err := s.workouts.FindForIntent(ctx, intent, fields)
		if err != nil {
			return "", err
		}
		if workout == nil {
			return s.recoverWorkoutNotFound(ctx, intent, fields)
		}

		fields.AskedOptional = true
		missing, newOptional := validation.FindMissingFields(intentType, fields)
		if err := s.persistFields(ctx, intent, fields, missing, newOptional); err != nil {
			return "", err
		}
		if err := s.updateIntent(ctx, intent.ID, &model.UpdateChatIntentCondition{WorkoutID: &workout.WorkoutID}); err != nil {
			return "", err
		}

		return fmt.Sprintf("Great! I found the workout: %s\nWould you also like to update:\n%s\n\nYou can type \"skip\" to proceed without them.",
			workoututil.FormatSummary(workout), fieldBullets(optional)), nil
	}

	fields.AskedOptional = true
	missing, newOptional := validation.FindMissingFields(intentType, fields)
	if err := s.persistFields(ctx, intent, fields, missing, newOptional); err != nil {
		return "", err
	}

	return fmt.Sprintf("Great! I have the required information. Would you also like to add:\n%s\n\nYou can type \"skip\" to proceed without them.",
		fieldBullets(optional)), nil
}

// recoverWorkoutNotFound 目标记录定位失败：清掉无效描述重新追问，并列出候选
func (s *Service) recoverWorkoutNotFound(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields) (string, error) {
	fields.WorkoutIdentifier = nil

	missing, optional := validation.FindMissingFields(constant.IntentType(intent.IntentType), fields)
	if err := s.persistFields(ctx, intent, fields, missing, optional); err != nil {
		return "", err
	}

	candidates, err := s.workouts.ListRecent(ctx, intent.UserID, s.retrieveListLimit)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return constant.ReplyNoWorkouts, nil
	}

	return constant.ReplyWorkoutNotFound + "\n\n" + updateCandidatePrompt(candidates), nil
}

func updateCandidatePrompt(candidates []*entity.Workout) string {
	return fmt.Sprintf("Which workout would you like to update?\n%s\n\nPlease specify by number (1-%d) or describe it.",
		workoututil.FormatNumberedList(candidates), len(candidates))
}

func askForMissingFields(intentType constant.IntentType, missing []string) string {
	return fmt.Sprintf("I need some more information to %s your workout:\n%s\n\nPlease provide these details, or ask me for suggestions based on your workout history! For example, you can say \"suggest a good time for running\" or \"what distance should I aim for?\"",
		intentType.String(), fieldBullets(missing))
}

func fieldBullets(fields []string) string {
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, "• "+validation.FieldPrompt(field))
	}
	return strings.Join(lines, "\n")
}

func (s *Service) appendMessage(ctx context.Context, userID, chatID, role, content, kind string) error {
	return s.history.Append(ctx, &entity.ChatMessage{
		UserID:  userID,
		ChatID:  chatID,
		Role:    role,
		Content: content,
		Kind:    kind,
	})
}

func (s *Service) getActiveIntent(ctx context.Context, userID, chatID string) (*entity.ChatIntent, error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatIntentRepository(session)
	if err != nil {
		return nil, err
	}
	return repo.GetActive(userID, chatID)
}

func (s *Service) createIntent(ctx context.Context, userID, chatID string, intentType constant.IntentType,
	fields *model.WorkoutFields, missing, optional []string) (*entity.ChatIntent, error) {
	metadata, err := fields.Encode()
	if err != nil {
		return nil, err
	}
	missingJSON, err := model.EncodeStringList(missing)
	if err != nil {
		return nil, err
	}
	optionalJSON, err := model.EncodeStringList(optional)
	if err != nil {
		return nil, err
	}

	intent := &entity.ChatIntent{
		UserID:         userID,
		ChatID:         chatID,
		IntentType:     intentType.String(),
		Metadata:       metadata,
		MissingFields:  missingJSON,
		OptionalFields: optionalJSON,
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatIntentRepository(session)
	if err != nil {
		return nil, err
	}
	if err := repo.Insert(intent); err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *Service) persistFields(ctx context.Context, intent *entity.ChatIntent, fields *model.WorkoutFields, missing, optional []string) error {
	metadata, err := fields.Encode()
	if err != nil {
		return err
	}
	missingJSON, err := model.EncodeStringList(missing)
	if err != nil {
		return err
	}
	optionalJSON, err := model.EncodeStringList(optional)
	if err != nil {
		return err
	}
	return s.updateIntent(ctx, intent.ID, &model.UpdateChatIntentCondition{
		Metadata:       &metadata,
		MissingFields:  &missingJSON,
		OptionalFields: &optionalJSON,
	})
}

func (s *Service) updateIntent(ctx context.Context, id int64, condition *model.UpdateChatIntentCondition) error {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	repo, err := s.repositoryFactory.NewChatIntentRepository(session)
	if err != nil {
		return err
	}
	return repo.Update(id, condition)
}
