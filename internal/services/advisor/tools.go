package advisor

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"finance-dashboard-backend/internal/repository"
)

const (
	toolQueryTransactions   = "queryTransactions"
	toolGetStatistics       = "getStatistics"
	toolGetTopMerchants     = "getTopMerchants"
	toolAnalyzeLatteFactors = "analyzeLatteFactors"
	toolDetectSubscriptions = "detectSubscriptions"
	toolComparePeriods      = "comparePeriods"
)

func functionTool(name, description, parameters string) openai.Tool {
	fn := &openai.FunctionDefinition{Name: name, Description: description}
	if parameters != "" {
		fn.Parameters = json.RawMessage(parameters)
	}
	return openai.Tool{Type: openai.ToolTypeFunction, Function: fn}
}

func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		functionTool(toolQueryTransactions,
			"查询符合条件的账单数据。支持模糊搜索商户名。",
			`{
				"type": "object",
				"properties": {
					"merchant":  {"type": "string", "description": "商户名称（模糊搜索），例如：'瑞幸' 可以匹配 '瑞幸咖啡'"},
					"category":  {"type": "string", "description": "消费分类，例如：'餐饮'、'交通'"},
					"minAmount": {"type": "number", "description": "最小金额（单位：元）"},
					"maxAmount": {"type": "number", "description": "最大金额（单位：元）"},
					"startDate": {"type": "string", "description": "开始日期（格式：YYYY-MM-DD）"},
					"endDate":   {"type": "string", "description": "结束日期（格式：YYYY-MM-DD）"},
					"limit":     {"type": "number", "description": "返回条数限制，默认 50"}
				}
			}`),
		functionTool(toolGetStatistics,
			"获取指定时期的统计数据摘要",
			`{
				"type": "object",
				"properties": {
					"period":  {"type": "string", "enum": ["week", "month", "year", "all"], "description": "统计时期"},
					"groupBy": {"type": "string", "enum": ["category", "merchant", "date"], "description": "分组维度"}
				},
				"required": ["period"]
			}`),
		functionTool(toolGetTopMerchants,
			"获取消费频次或金额最高的商户排行",
			`{
				"type": "object",
				"properties": {
					"limit":  {"type": "number", "description": "返回前 N 名，默认 10"},
					"sortBy": {"type": "string", "enum": ["amount", "frequency"], "description": "排序依据"}
				}
			}`),
		functionTool(toolAnalyzeLatteFactors,
			"识别小额高频消费（拿铁因子），返回隐形开支列表", ""),
		functionTool(toolDetectSubscriptions,
			"自动识别周期性订阅服务", ""),
		functionTool(toolComparePeriods,
			"对比两个时间段的消费差异",
			`{
				"type": "object",
				"properties": {
					"period1Start": {"type": "string", "description": "时期1开始日期，格式：YYYY-MM-DD"},
					"period1End":   {"type": "string", "description": "时期1结束日期，格式：YYYY-MM-DD"},
					"period2Start": {"type": "string", "description": "时期2开始日期，格式：YYYY-MM-DD"},
					"period2End":   {"type": "string", "description": "时期2结束日期，格式：YYYY-MM-DD"}
				},
				"required": ["period1Start", "period1End", "period2Start", "period2End"]
			}`),
	}
}

// toolArgs is the superset of every tool's arguments; each executor
// reads the fields it cares about.
type toolArgs struct {
	Merchant     string  `json:"merchant"`
	Category     string  `json:"category"`
	MinAmount    float64 `json:"minAmount"`
	MaxAmount    float64 `json:"maxAmount"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Limit        int     `json:"limit"`
	Period       string  `json:"period"`
	GroupBy      string  `json:"groupBy"`
	SortBy       string  `json:"sortBy"`
	Period1Start string  `json:"period1Start"`
	Period1End   string  `json:"period1End"`
	Period2Start string  `json:"period2Start"`
	Period2End   string  `json:"period2End"`
}

// ToolExecutor runs the model's tool requests against the local store.
type ToolExecutor struct {
	txRepo *repository.TransactionRepository
}

func NewToolExecutor(txRepo *repository.TransactionRepository) *ToolExecutor {
	return &ToolExecutor{txRepo: txRepo}
}

// Execute dispatches one tool call. Failures are returned as an error
// payload for the model, never as a Go error: a bad tool round must not
// abort the conversation.
func (e *ToolExecutor) Execute(name, rawArgs string) any {
	var args toolArgs
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return errPayload("invalid arguments: " + err.Error())
		}
	}

	switch name {
	case toolQueryTransactions:
		txs, err := e.txRepo.Query(repository.TransactionFilter{
			Merchant:  args.Merchant,
			Category:  args.Category,
			MinAmount: args.MinAmount,
			MaxAmount: args.MaxAmount,
			StartDate: args.StartDate,
			EndDate:   args.EndDate,
			Limit:     args.Limit,
		})
		return resultOrError(txs, err)
	case toolGetStatistics:
		rows, err := e.txRepo.Statistics(args.Period, args.GroupBy)
		return resultOrError(rows, err)
	case toolGetTopMerchants:
		stats, err := e.txRepo.TopMerchants(args.Limit, args.SortBy)
		return resultOrError(stats, err)
	case toolAnalyzeLatteFactors:
		factors, err := e.txRepo.LatteFactors()
		return resultOrError(factors, err)
	case toolDetectSubscriptions:
		subs, err := e.txRepo.DetectSubscriptions()
		return resultOrError(subs, err)
	case toolComparePeriods:
		cmp, err := e.txRepo.ComparePeriods(args.Period1Start, args.Period1End, args.Period2Start, args.Period2End)
		return resultOrError(cmp, err)
	default:
		return errPayload("unknown tool: " + name)
	}
}

func resultOrError(result any, err error) any {
	if err != nil {
		return errPayload(err.Error())
	}
	return result
}

func errPayload(msg string) map[string]string {
	return map[string]string{"error": msg}
}
