package constant

// =============================================
// 意图类型常量
// =============================================

// IntentType 意图类型
type IntentType string

const (
	// IntentTypeCreate 创建锻炼记录
	IntentTypeCreate IntentType = "create"
	// IntentTypeUpdate 修改已有锻炼记录
	IntentTypeUpdate IntentType = "update"
	// IntentTypeRetrieve 查询锻炼记录
	IntentTypeRetrieve IntentType = "retrieve"
	// IntentTypeDelete 删除锻炼记录（暂未实现处理器）
	IntentTypeDelete IntentType = "delete"
	// IntentTypeUnknown 无法识别的意图
	IntentTypeUnknown IntentType = "unknown"
)

// String 返回意图类型的字符串值
func (t IntentType) String() string {
	return string(t)
}

// IsValid 检查意图类型是否有效
func (t IntentType) IsValid() bool {
	switch t {
	case IntentTypeCreate, IntentTypeUpdate, IntentTypeRetrieve, IntentTypeDelete, IntentTypeUnknown:
		return true
	}
	return false
}

// =============================================
// 锻炼字段名常量
// =============================================

const (
	FieldType              = "type"
	FieldDistance          = "distance"
	FieldIdealDuration     = "idealDuration"
	FieldActualDuration    = "actualDuration"
	FieldStartDate         = "startDate"
	FieldEndDate           = "endDate"
	FieldWorkoutIdentifier = "workoutIdentifier"
)

// WorkoutTypes 合法的锻炼类型词表
var WorkoutTypes = []string{"Running", "Cycling", "Swimming", "Yoga", "Walking"}

// FieldSchema 每种意图的字段需求
type FieldSchema struct {
	Required []string
	Optional []string
}

// CreateWorkoutFields 创建意图的字段需求
var CreateWorkoutFields = FieldSchema{
	Required: []string{FieldType, FieldStartDate},
	Optional: []string{FieldDistance, FieldIdealDuration, FieldEndDate},
}

// UpdateWorkoutFields 更新意图的字段需求
var UpdateWorkoutFields = FieldSchema{
	Required: []string{FieldWorkoutIdentifier},
	Optional: []string{FieldType, FieldDistance, FieldIdealDuration, FieldStartDate, FieldEndDate},
}

// =============================================
// 分类网关关键词
// =============================================

// ActionKeywords 动作关键词，命中其一才可能走 agent 流程
var ActionKeywords = []string{
	"create", "delete", "update", "edit", "add", "schedule", "change",
	"cancel", "move", "re-schedule", "reschedule", "initiate", "modify",
}

// WorkoutKeywords 领域关键词，需与动作关键词同时命中
var WorkoutKeywords = []string{
	"run", "swim", "bike", "workout", "exercise", "gym", "session",
	"running", "yoga", "zumba", "it",
}

// RagKeywords 建议请求关键词，命中则切换到 RAG 模式
var RagKeywords = []string{
	"suggest", "recommend", "advice", "based on", "history", "past", "previous",
	"what do you think", "should i", "help me choose", "best time", "good distance",
	"when should", "how long", "analyze", "look at my", "considering my",
}

// ConfirmationKeywords 确认关键词，命中则视为接受建议
var ConfirmationKeywords = []string{
	"yes", "ok", "sure", "sounds good", "that works", "perfect", "great",
	"let's do it", "i agree", "that's good", "go ahead", "proceed",
	"book it", "schedule it", "let's go with that", "yeah", "looks good",
}

// =============================================
// 会话消息常量
// =============================================

const (
	// MessageKindSuggestion 带有可确认建议的助手消息标记
	MessageKindSuggestion = "suggestion"
)

// =============================================
// 提示词模板
// =============================================

const (
	// ClassifyPromptTemplate 分类网关的 LLM 兜底提示词
	ClassifyPromptTemplate = `You are a classifier. Classify the user input below into one of two categories: "rag" (for general questions) or "agent" (for action or CRUD-related instructions like create/edit/delete workout).

User Input: "%s"
Category:`

	// IntentDetectionPromptTemplate 意图检测提示词，%s 依次为类型词表、用户消息
	IntentDetectionPromptTemplate = `
You are a workout assistant. Analyze this message and determine the user's intent.

VALID INTENTS:
- create: Adding new workouts (keywords: add, create, log, record, new, did, completed, schedule, plan)
- update: Modifying existing workouts (keywords: update, change, modify, edit, correct, fix, reschedule, finish, complete, end)
- retrieve: Finding/showing workouts (keywords: show, get, find, search, history, previous)
- delete: Removing workouts (keywords: delete, remove, cancel)
- unknown: When intent is unclear

VALID WORKOUT TYPES: %s
Map similar terms: run→Running, stroll→Walking, bike→Cycling, etc.

FIELD EXTRACTION RULES:
- type: Only use valid workout types above
- distance: Numbers with unit context (5km, 3 miles)
- idealDuration: Planned time for exercise (30 minutes, 1 hour) - user sets this when planning
- actualDuration: DO NOT extract this - it's calculated automatically from start/end dates
- startDate: When workout starts/started - extract natural language time expressions
- endDate: When workout ends/ended - extract if user mentions completion or end time
- workoutIdentifier: For updates only, specific workout references ("1", "last workout", "yesterday's run")

DATE EXTRACTION:
- Look for time expressions like: "tomorrow at 6pm", "next Monday 9am", "in 2 hours", "day after tomorrow at 3pm"
- Extract the full time expression as text for startDate/endDate fields
- Examples: "tomorrow at 6pm" → startDate: "tomorrow at 6pm"

MESSAGE: "%s"

Return JSON format examples:

CREATE: {"intentType": "create", "extractedFields": {"type": "Running", "distance": 5, "startDate": "tomorrow at 6pm", "idealDuration": 30}}

UPDATE (schedule): {"intentType": "update", "extractedFields": {"workoutIdentifier": "1", "startDate": "day after tomorrow at 3pm"}}

UPDATE (complete): {"intentType": "update", "extractedFields": {"workoutIdentifier": "last workout", "endDate": "now"}}

Only include fields you're confident about. Do not guess or assume.
For startDate/endDate, preserve the natural language expression exactly as written.
`

	// FieldExtractionPromptTemplate 续轮字段提取提示词，%s 依次为类型词表、已有日期说明、用户消息
	FieldExtractionPromptTemplate = `
Extract workout fields from this user response. Return only confident extractions.

VALID WORKOUT TYPES: %s
%s

FIELD TYPES:
- type: Workout type (map to valid types above)
- distance: Numeric value for distance
- idealDuration: Planned duration in minutes (user-set target)
- startDate: When workout starts - extract natural language time expressions
- endDate: When workout ends - extract if mentioned
- workoutIdentifier: Specific workout reference ("1", "2", "last workout", "yesterday's run")

DATE EXAMPLES:
- "at 3pm" → startDate: "today at 3pm"
- "tomorrow morning" → startDate: "tomorrow morning"
- "I finished at 4pm" → endDate: "today at 4pm"
- "next week Monday 9am" → startDate: "next week Monday 9am"

USER RESPONSE: "%s"

Rules:
- Only extract fields you're certain about
- For dates, preserve the natural language expression
- Don't confuse idealDuration with calculated actualDuration
- Return empty object {} if no clear fields found
- Do not include null/undefined values

Return JSON format:
{"distance": 5, "idealDuration": 30} or {"workoutIdentifier": "1"} or {"endDate": "now"} or {}
`

	// ObtainedStartDatePromptTemplate 已捕获开始时间时的追加说明，%s 为已有时间
	ObtainedStartDatePromptTemplate = `OBTAINED STARTDATE : %s. START DATE is already captured. If user adds any more information to it append it to existing startDate. EXAMPLE - Existing startDate has "8/18/2025, 12:00:00 PM" and user adds "at 9pm". The final startDate should be "18th August at 9pm"`

	// ObtainedEndDatePromptTemplate 已捕获结束时间时的追加说明，%s 为已有时间
	ObtainedEndDatePromptTemplate = `OBTAINED ENDDATE : %s. END DATE is already captured. If user adds any more information to it append it to existing endDate. EXAMPLE - Existing endDate has "8/20/2025, 10:00:00 PM" and user adds "finished at 8am". The final endDate should be "20th August at 8am"`

	// SuggestedFieldsPromptTemplate 建议确认后的字段收割提示词，%s 依次为对话、意图类型、缺失字段 JSON
	SuggestedFieldsPromptTemplate = `
Based on this recent conversation, extract the workout details that were suggested and confirmed:

CONVERSATION:
%s

CURRENT INTENT: %s
MISSING FIELDS: %s

Extract the specific workout details that were suggested by the assistant and confirmed by the user.
Focus on concrete details like times, dates, distances, durations, workout types.

FIELD MAPPING:
- time/startDate: Extract specific times mentioned (e.g., "6pm tomorrow", "Monday 9am")
- time/endDate: Extract specific times mentioned (e.g., "6pm tomorrow", "Monday 9am") only during 'update' or 'delete' intent when user wants to end the workout.
- duration/idealDuration: Extract planned workout duration in minutes
- distance: Extract distance values in kilometers
- type: Extract workout type (Running, Cycling, Swimming, Yoga, Walking)

Rules:
- Only extract fields that were clearly suggested and confirmed
- Preserve natural language time expressions for startDate
- Preserve natural language time expressions for endDate only when intent is 'update' or 'delete'
- Convert durations to minutes as numbers
- Map workout types to valid options
- Return empty object if no clear confirmations found

Return JSON format:
{"startDate": "tomorrow at 6pm", "idealDuration": 30, "distance": 5} or {}
`

	// AffirmationPromptTemplate 确认检测的 LLM 兜底提示词，%s 依次为建议原文、用户回复
	AffirmationPromptTemplate = `
You are an expert in understanding human emotions and analyze their intention. Here you need to find out
if the user is accepting a certain suggestion or rejecting it. Consider spelling mistakes as well for affirmations.
User was suggested: "%s"
They replied: "%s"

Is this an acceptance or affirmation of the suggestion?
Respond only with: yes or no.
`

	// FindWorkoutPromptTemplate 模糊匹配锻炼记录的提示词，%s 依次为用户描述、候选记录 JSON
	FindWorkoutPromptTemplate = `
Find the best matching workout for: "%s"

Available workouts:
%s

Return only the workoutId of the best match, or "null" if no good match exists.
Be strict - only return a match if you're confident it's what the user meant.

Response format: just the workoutId string or "null"
`

	// RagSystemPromptTemplate RAG 对话的系统提示词，%s 依次为检索片段、意图上下文
	RagSystemPromptTemplate = `You are a helpful assistant with access to user's workout history.
Answer based on the following context:

%s
%s`
)

// =============================================
// 固定的会话回复文案
// =============================================

const (
	// ReplyUnknownIntent 无法识别意图时的澄清回复
	ReplyUnknownIntent = "I didn't understand what you'd like to do with your workouts. You can ask me to create, update, retrieve, or delete workout records. You can also ask me for suggestions based on your workout history!"

	// ReplyGenericError 兜底道歉回复
	ReplyGenericError = "I encountered an error processing your request. Please try again."

	// ReplyContinuationError 续轮处理失败的回复
	ReplyContinuationError = "I had trouble processing your response. Could you please try again?"

	// ReplyWorkoutNotFound 记录定位失败的回复
	ReplyWorkoutNotFound = "I couldn't find that workout. Please try specifying it differently from the list."

	// ReplyNoWorkouts 用户没有任何记录时的回复
	ReplyNoWorkouts = "You don't have any workouts yet."
)
