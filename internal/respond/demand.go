package respond

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/catalog"
	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

// factorsFrom reads an economic-factor map out of a result regardless
// of whether it was decoded from JSON (map[string]any) or injected by
// the orchestrator (map[string]float64).
func factorsFrom(res domain.Result, key string) map[string]float64 {
	switch v := res[key].(type) {
	case map[string]float64:
		return v
	case map[string]any:
		out := make(map[string]float64, len(v))
		for k, raw := range v {
			switch n := raw.(type) {
			case float64:
				out[k] = n
			case int:
				out[k] = float64(n)
			}
		}
		return out
	}
	return nil
}

func fmtRate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (r *Renderer) demandForecast(res domain.Result, st *dialogue.State) string {
	if res.Failed() {
		fallback := "most major cities"
		if st != nil && st.LastCity != "" {
			fallback = st.LastCity
		}
		return fmt.Sprintf("I apologize, but I'm currently unable to connect to the demand forecasting service. Based on historical patterns, %s generally experience strong rental demand. Please try again in a moment, or feel free to ask me about other market insights.", fallback)
	}

	city := res.Str("city", "the city")
	demand := int(res.Num("predicted_demand"))
	confidence := res.Str("confidence", "medium")
	month := res.Int("month")
	year := res.Int("year")
	extracted := factorsFrom(res, "_extracted_economic_factors")
	monthly := demand * 30

	var b strings.Builder
	b.WriteString("Based on my analysis ")

	if len(extracted) > 0 {
		var mentioned []string
		if v, ok := extracted[domain.FactorInflation]; ok {
			mentioned = append(mentioned, fmt.Sprintf("**%s%% inflation**", fmtRate(v)))
		}
		if v, ok := extracted[domain.FactorInterest]; ok {
			mentioned = append(mentioned, fmt.Sprintf("**%s%% interest rate**", fmtRate(v)))
		}
		if v, ok := extracted[domain.FactorEmployment]; ok {
			mentioned = append(mentioned, fmt.Sprintf("**%s%% employment**", fmtRate(v)))
		}
		if len(mentioned) > 0 {
			b.WriteString("with " + joinAnd(mentioned) + ", ")
		}
	} else {
		b.WriteString("of historical patterns and economic indicators, ")
	}

	if month >= 1 && month <= 12 && year > 0 {
		fmt.Fprintf(&b, "the rental demand in **%s** for **%s %d** ", city, catalog.MonthName(month), year)
	} else {
		fmt.Fprintf(&b, "the rental demand in **%s** ", city)
	}

	fmt.Fprintf(&b, "is approximately **%s properties per day**, which translates to about **%s properties per month**. ", comma(demand), comma(monthly))

	// Cross-reference the most recent historical trend for the same city.
	if st != nil && st.LastTrend != nil && st.LastCity == city {
		trend := *st.LastTrend
		if trend < -20 {
			if monthly > 50000 {
				fmt.Fprintf(&b, "This forecast suggests a **recovery** from the recent %.1f%% decline, likely driven by improved economic conditions or seasonal factors. ", -trend)
			} else {
				fmt.Fprintf(&b, "Note: Recent historical data showed a %.1f%% decline. This forecast reflects continuation of that trend. ", -trend)
			}
		} else if trend > 20 {
			fmt.Fprintf(&b, "This aligns with the recent growth trend of +%.1f%%. ", trend)
		}
	}

	if confidence == "high" {
		b.WriteString("The model has high confidence in this prediction. ")
	} else {
		b.WriteString("This is an estimate based on available trends. ")
	}

	if monthly > 50000 {
		fmt.Fprintf(&b, "%s shows strong rental market activity.", city)
	}

	return b.String()
}

func (r *Renderer) tenantQuality(res domain.Result) string {
	if res.Failed() {
		return "I apologize, but I couldn't access the enhanced risk reporting service right now. I can still help with standard demand forecasts, gap analysis, or historical trends."
	}

	city := res.Str("city", "the city")
	baseDemand := res.Sub("base_demand").Num("predicted_demand")
	quality := res.Sub("tenant_quality_analysis")
	rec := res.Sub("investment_recommendation")
	adjusted := res.Num("quality_adjusted_demand")

	gradeA := quality.Num("high_quality_pct") * 100
	gradeB := quality.Num("medium_quality_pct") * 100
	gradeD := quality.Num("high_risk_pct") * 100
	riskScore := quality.Num("average_default_risk") * 100

	rating := strings.ReplaceAll(rec.Str("rating", "UNKNOWN"), "_", " ")
	recConfidence := rec.Num("confidence") * 100
	reasoning := rec.Str("reasoning", "")

	var b strings.Builder
	fmt.Fprintf(&b, "**📊 Analysis for %s: Tenant Quality & Investment Risk**\n\n", city)

	// Factors may come back from the service or from the user's query.
	extracted := factorsFrom(res, "economic_factors_used")
	if extracted == nil {
		extracted = factorsFrom(res, "_extracted_economic_factors")
	}
	if len(extracted) > 0 {
		var factors []string
		if v, ok := extracted[domain.FactorInflation]; ok {
			factors = append(factors, fmt.Sprintf("Inflation: %s%%", fmtRate(v)))
		}
		if v, ok := extracted[domain.FactorInterest]; ok {
			factors = append(factors, fmt.Sprintf("Interest: %s%%", fmtRate(v)))
		}
		if len(factors) > 0 {
			fmt.Fprintf(&b, "⚠️ *Scenario: High Economic Stress (%s)*\n\n", strings.Join(factors, ", "))
		}
	}

	b.WriteString("Based on our enhanced analysis of tenant financial profiles:\n\n")
	fmt.Fprintf(&b, "**🏆 Investment Rating: %s** (%.0f%% Confidence)\n", rating, recConfidence)
	fmt.Fprintf(&b, "*%s*\n\n", reasoning)

	b.WriteString("**👥 Tenant Quality Breakdown:**\n")
	fmt.Fprintf(&b, "- **Grade A (Premium):** %.1f%% - Excellent financial health\n", gradeA)
	fmt.Fprintf(&b, "- **Grade B (Reliable):** %.1f%% - Steady payers\n", gradeB)
	fmt.Fprintf(&b, "- **Grade D (Risky):** %.1f%% - High churn risk\n\n", gradeD)

	b.WriteString("**📉 Risk Assessment:**\n")
	fmt.Fprintf(&b, "- Average Default Risk: **%.1f%%**\n", riskScore)
	fmt.Fprintf(&b, "- Quality-Adjusted Demand: **%.0f** (vs %.0f total)\n\n", adjusted, baseDemand)

	b.WriteString("**💡 Recommendation:**\n")
	switch rating {
	case "STRONG BUY":
		fmt.Fprintf(&b, "Highly recommended. The majority of tenants (%.0f%%) are financially stable, ensuring consistent rental income.", gradeA+gradeB)
	case "BUY":
		b.WriteString("Good investment. Tenant quality is solid, but perform standard thorough checks.")
	case "HOLD":
		b.WriteString("Proceed with caution. A significant portion of demand comes from high-risk tenants.")
	default:
		b.WriteString("High risk market. Tenant default probability is elevated.")
	}

	return b.String()
}
