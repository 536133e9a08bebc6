package pages

import "fmt"

// Plan is one pricing tier. Prices are whole yuan per month.
type Plan struct {
	ID            string
	Name          string
	Monthly       int
	Yearly        int
	Period        string
	PeriodYearly  string
	Features      []string
	CTA           string
	Popular       bool
	Link          string
	PayPalMonthly string
	PayPalYearly  string
	Email         string
}

// YearlySavings is what a yearly subscriber saves over twelve monthly payments.
func (p Plan) YearlySavings() int {
	return (p.Monthly - p.Yearly) * 12
}

var plans = []Plan{
	{
		ID:       "free",
		Name:     "免费版",
		Period:   "永久免费",
		Features: []string{"每日 3 次生成", "5种报告类型", "基础版报告", "Markdown 导出"},
		CTA:      "开始使用",
		Link:     "/",
	},
	{
		ID:            "pro",
		Name:          "专业版",
		Monthly:       99,
		Yearly:        79,
		Period:        "/月",
		PeriodYearly:  "/月 (年付)",
		Features:      []string{"无限次生成", "5种报告类型", "所有深度级别", "PDF/Word 导出", "优先响应", "邮件支持"},
		CTA:           "立即订阅",
		Popular:       true,
		PayPalMonthly: "https://www.paypal.com/cgi-bin/webscr?cmd=_xclick&business=haotony%40hotmail.com&item_name=AI+Report+Generator+-+%E4%B8%93%E4%B8%9A%E7%89%88%E6%9C%88%E4%BB%98&amount=14.00&currency_code=USD&return=https%3A%2F%2Fai-report-generator-alpha.vercel.app%2F%3Fpaid%3Dsuccess&cancel_return=https%3A%2F%2Fai-report-generator-alpha.vercel.app%2Fpricing",
		PayPalYearly:  "https://www.paypal.com/cgi-bin/webscr?cmd=_xclick&business=haotony%40hotmail.com&item_name=AI+Report+Generator+-+%E4%B8%93%E4%B8%9A%E7%89%88%E5%B9%B4%E4%BB%98&amount=134.00&currency_code=USD&return=https%3A%2F%2Fai-report-generator-alpha.vercel.app%2F%3Fpaid%3Dsuccess&cancel_return=https%3A%2F%2Fai-report-generator-alpha.vercel.app%2Fpricing",
	},
	{
		ID:           "enterprise",
		Name:         "企业版",
		Monthly:      999,
		Yearly:       799,
		Period:       "/月",
		PeriodYearly: "/月 (年付)",
		Features:     []string{"无限次生成", "API 接入", "自定义报告模板", "团队协作", "专属客服", "SLA 保障"},
		CTA:          "联系我们",
		Email:        "mailto:haotony@hotmail.com?subject=AI Report Generator 企业版咨询",
	},
}

// Plans returns the pricing tiers in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

type planView struct {
	Plan
	Price       string
	PeriodLabel string
	Savings     int
	Href        string
	Label       string
	External    bool
}

func viewPlans(yearly bool) []planView {
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		v := planView{Plan: p, Price: fmt.Sprintf("¥%d", p.Monthly), PeriodLabel: p.Period, Label: p.CTA}
		if yearly {
			v.Price = fmt.Sprintf("¥%d", p.Yearly)
			if p.PeriodYearly != "" {
				v.PeriodLabel = p.PeriodYearly
			}
			if p.Monthly > 0 {
				v.Savings = p.YearlySavings()
			}
		}
		switch {
		case p.PayPalMonthly != "":
			v.External = true
			if yearly {
				v.Href = p.PayPalYearly
				v.Label = fmt.Sprintf("%s ¥%d/年", p.CTA, p.Yearly*12)
			} else {
				v.Href = p.PayPalMonthly
				v.Label = fmt.Sprintf("%s ¥%d/月", p.CTA, p.Monthly)
			}
		case p.Email != "":
			v.External = true
			v.Href = p.Email
		default:
			v.Href = p.Link
		}
		out = append(out, v)
	}
	return out
}
