// Package report holds the report categories, depth tiers and the system
// instruction synthesized from them.
package report

import (
	"errors"
	"fmt"
	"strings"

	"reportgen/internal/llm/client"
)

const (
	DefaultCategory = "feasibility"
	DefaultDepth    = "standard"
)

var (
	ErrUnknownCategory = errors.New("unknown report category")
	ErrUnknownDepth    = errors.New("unknown depth level")
)

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type Depth struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Words string `json:"words"`
}

var categories = []Category{
	{ID: "feasibility", Label: "可行性研究", Icon: "📊"},
	{ID: "business", Label: "商业计划", Icon: "💼"},
	{ID: "market", Label: "市场调研", Icon: "📈"},
	{ID: "technical", Label: "技术分析", Icon: "🔧"},
	{ID: "financial", Label: "财务分析", Icon: "💰"},
}

var depths = []Depth{
	{ID: "basic", Label: "基础版", Words: "500-1000字"},
	{ID: "standard", Label: "标准版", Words: "2000-3000字"},
	{ID: "deep", Label: "深度版", Words: "5000-8000字"},
}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Depths returns the depth tiers in display order.
func Depths() []Depth {
	out := make([]Depth, len(depths))
	copy(out, depths)
	return out
}

// Resolve maps ids to catalog entries. Blank ids select the defaults.
func Resolve(categoryID, depthID string) (Category, Depth, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		categoryID = DefaultCategory
	}
	depthID = strings.TrimSpace(depthID)
	if depthID == "" {
		depthID = DefaultDepth
	}

	var (
		cat      Category
		dep      Depth
		foundCat bool
		foundDep bool
	)
	for _, c := range categories {
		if c.ID == categoryID {
			cat, foundCat = c, true
			break
		}
	}
	if !foundCat {
		return Category{}, Depth{}, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
	}
	for _, d := range depths {
		if d.ID == depthID {
			dep, foundDep = d, true
			break
		}
	}
	if !foundDep {
		return Category{}, Depth{}, fmt.Errorf("%w: %q", ErrUnknownDepth, depthID)
	}
	return cat, dep, nil
}

// BuildInstruction names the category's professional framing and the depth's
// target length.
func BuildInstruction(cat Category, dep Depth) string {
	return fmt.Sprintf("你是一位专业的%s专家。\n请根据用户需求，生成一份%s（%s）的专业报告。\n报告应该结构清晰、数据详实、分析深入。",
		cat.Label, dep.Label, dep.Words)
}

// BuildMessages returns one system message followed by one user message that
// carries the brief exactly as typed.
func BuildMessages(instruction, brief string) []client.Message {
	return []client.Message{
		{Role: client.RoleSystem, Content: instruction},
		{Role: client.RoleUser, Content: brief},
	}
}
