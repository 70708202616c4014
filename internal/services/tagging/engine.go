// Package tagging implements the deterministic tag rule engine: a flat
// list of independent (predicate, tag) rules whose matches are unioned.
package tagging

import (
	"strings"
	"time"

	"finance-dashboard-backend/internal/models"
)

const (
	// below this a purchase counts as small-value (also the latte
	// factor threshold in the store)
	lowValueCutoff = 50
	// at or above this a purchase is a major decision
	majorDecisionCutoff = 500
)

type rule struct {
	tag   string
	match func(tx *models.Transaction) bool
}

func keywordRule(tag string, keywords ...string) rule {
	return rule{tag: tag, match: func(tx *models.Transaction) bool {
		for _, k := range keywords {
			if strings.Contains(tx.Peer, k) {
				return true
			}
		}
		return false
	}}
}

var rules = []rule{
	{tag: "small-value", match: func(tx *models.Transaction) bool {
		return tx.Amount < lowValueCutoff
	}},
	{tag: "major-decision", match: func(tx *models.Transaction) bool {
		return tx.Amount >= majorDecisionCutoff
	}},
	{tag: "late-night-spending", match: func(tx *models.Transaction) bool {
		h := time.UnixMilli(tx.Time).Hour()
		return h >= 22 || h <= 6
	}},
	{tag: "weekend", match: func(tx *models.Transaction) bool {
		wd := time.UnixMilli(tx.Time).Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}},
	keywordRule("habitual", "咖啡", "奶茶", "茶饮", "饮品", "Coffee", "Tea"),
	keywordRule("health", "健身", "瑜伽", "游泳", "跑步", "运动", "Gym", "Fitness"),
	keywordRule("self-investment", "书店", "课程", "培训", "教育", "学习", "Course"),
	keywordRule("social", "餐厅", "聚餐", "火锅", "烧烤", "KTV", "电影", "酒吧", "Bar"),
	keywordRule("essential", "超市", "菜市场", "生鲜", "Market"),
}

// SuggestTags evaluates every rule against the transaction and returns
// the union of matching tags. Each rule carries a distinct tag, so the
// result is already a set. Pure; never touches stored state.
func SuggestTags(tx *models.Transaction) []string {
	var tags []string
	for _, r := range rules {
		if r.match(tx) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}
