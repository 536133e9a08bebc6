package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportgen/internal/llm/client"
)

func TestResolve_Defaults(t *testing.T) {
	cat, dep, err := Resolve("", "  ")
	require.NoError(t, err)
	assert.Equal(t, "feasibility", cat.ID)
	assert.Equal(t, "standard", dep.ID)
}

func TestResolve_Unknown(t *testing.T) {
	_, _, err := Resolve("poetry", "standard")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, _, err = Resolve("market", "epic")
	assert.ErrorIs(t, err, ErrUnknownDepth)
}

func TestBuildInstruction_MarketStandard(t *testing.T) {
	cat, dep, err := Resolve("market", "standard")
	require.NoError(t, err)

	instruction := BuildInstruction(cat, dep)
	assert.Contains(t, instruction, "市场调研")
	assert.Contains(t, instruction, "2000-3000字")
	assert.Equal(t, "你是一位专业的市场调研专家。\n请根据用户需求，生成一份标准版（2000-3000字）的专业报告。\n报告应该结构清晰、数据详实、分析深入。", instruction)
}

func TestBuildMessages_BriefVerbatim(t *testing.T) {
	brief := "  为新能源汽车公司写市场调研报告\n"
	msgs := BuildMessages("sys", brief)

	require.Len(t, msgs, 2)
	assert.Equal(t, client.RoleSystem, msgs[0].Role)
	assert.Equal(t, "sys", msgs[0].Content)
	assert.Equal(t, client.RoleUser, msgs[1].Role)
	assert.Equal(t, brief, msgs[1].Content)
}

func TestCatalogs_AreCopies(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 5)
	cats[0].Label = "changed"
	assert.Equal(t, "可行性研究", Categories()[0].Label)

	deps := Depths()
	require.Len(t, deps, 3)
	assert.Equal(t, []string{"500-1000字", "2000-3000字", "5000-8000字"}, []string{deps[0].Words, deps[1].Words, deps[2].Words})
}
