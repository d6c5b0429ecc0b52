package respond

import (
	"fmt"
	"strings"

	"github.com/rentpulse/rentpulse-assistant-go/internal/domain"
)

const rankingsUnavailable = "I apologize, but I couldn't fetch the city rankings at this moment. Please try again."
const rankingsEmpty = "I couldn't retrieve city data at this moment."

func cityRankLine(i int, c domain.Result) string {
	return fmt.Sprintf("%d. **%s**: %s properties/day (~%s/month)\n",
		i+1, c.Str("city", "Unknown"), comma(int(c.Num("demand"))), comma(int(c.Num("monthly_demand"))))
}

func (r *Renderer) topCities(res domain.Result) string {
	if res.Failed() {
		return rankingsUnavailable
	}
	cities := res.List("cities")
	if len(cities) == 0 {
		return rankingsEmpty
	}
	period := res.Str("period", "historical period")

	var b strings.Builder
	fmt.Fprintf(&b, "Based on analysis of **10 million actual rental transactions** (%s), here are the **top %d cities** with the highest rental demand:\n\n", period, len(cities))
	for i, c := range cities {
		b.WriteString(cityRankLine(i, c))
	}
	fmt.Fprintf(&b, "\n**Data Source**: Real historical data from 10M transactions (%s). These cities consistently show the strongest rental market activity.", period)
	return b.String()
}

func (r *Renderer) bottomCities(res domain.Result) string {
	if res.Failed() {
		return rankingsUnavailable
	}
	cities := res.List("cities")
	if len(cities) == 0 {
		return rankingsEmpty
	}
	period := res.Str("period", "historical period")

	var b strings.Builder
	fmt.Fprintf(&b, "Based on analysis of **10 million actual rental transactions** (%s), here are the **bottom %d cities** with the lowest rental demand:\n\n", period, len(cities))
	for i, c := range cities {
		b.WriteString(cityRankLine(i, c))
	}
	b.WriteString("\nThese cities show lower market activity. Investors should exercise caution and conduct thorough due diligence before investing in these markets.")
	return b.String()
}

func (r *Renderer) topCity(res domain.Result) string {
	if res.Failed() {
		return rankingsUnavailable
	}
	cities := res.List("cities")
	if len(cities) == 0 {
		return rankingsEmpty
	}
	c := cities[0]
	city := c.Str("city", "Unknown")
	period := res.Str("period", "historical period")

	var b strings.Builder
	fmt.Fprintf(&b, "Based on analysis of **10 million actual rental transactions** (%s), the **#1 city** with the highest rental demand is:\n\n", period)
	fmt.Fprintf(&b, "🏆 **%s**: %s properties/day (~%s/month)\n\n", city, comma(int(c.Num("demand"))), comma(int(c.Num("monthly_demand"))))
	fmt.Fprintf(&b, "**Data Source**: Real historical data from 10M transactions (%s). %s consistently shows the strongest rental market activity and represents the best investment opportunity among all analyzed cities.", period, city)
	return b.String()
}

func (r *Renderer) bottomCity(res domain.Result) string {
	if res.Failed() {
		return rankingsUnavailable
	}
	cities := res.List("cities")
	if len(cities) == 0 {
		return rankingsEmpty
	}
	c := cities[0]
	city := c.Str("city", "Unknown")
	period := res.Str("period", "historical period")

	var b strings.Builder
	b.WriteString("Based on current market analysis, the city with the **lowest rental demand** is:\n\n")
	fmt.Fprintf(&b, "⚠️ **%s**: %s properties/day (~%s/month)\n\n", city, comma(int(c.Num("demand"))), comma(int(c.Num("monthly_demand"))))
	fmt.Fprintf(&b, "**Data Source**: Real historical data from 10M transactions (%s). %s shows the weakest market activity among all analyzed cities. Investors should exercise caution and conduct thorough due diligence before considering this market.", period, city)
	return b.String()
}
