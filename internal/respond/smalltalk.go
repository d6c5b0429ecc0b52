package respond

import "fmt"

// Greeting renders the welcome message, personalized when the user has
// introduced themselves.
func (r *Renderer) Greeting(userName string) string {
	greeting := "Hello"
	if userName != "" {
		greeting = "Hello " + userName
	}
	return greeting + `

I'm your AI Property Investment Assistant. I'm here to help you make smart rental property decisions.

**I can help you with:**
- Rental demand forecasting for any city
- Investment opportunity analysis
- Historical market trends
- Best localities for investment

**Just ask me naturally, like:**
- "What's the demand in Mumbai?"
- "Where should I invest in Delhi?"
- "Show me Bangalore opportunities"

What would you like to know?
`
}

var thankYouResponses = []string{
	"You're very welcome! 😊 Happy to help you make informed investment decisions. Feel free to ask anything else!",
	"My pleasure! 🏠 I'm here whenever you need property insights. What else can I help you with?",
	"Glad I could help! 💡 Don't hesitate to reach out if you have more questions about the rental market.",
}

// ThankYou rotates over a small set of acknowledgments keyed by the
// conversation turn count so repeated thanks don't sound canned.
func (r *Renderer) ThankYou(turn int) string {
	if turn < 0 {
		turn = 0
	}
	return thankYouResponses[turn%len(thankYouResponses)]
}

// Goodbye renders the farewell message.
func (r *Renderer) Goodbye() string {
	return `Goodbye! 👋

Best of luck with your property investments! Remember, I'm always here to help you analyze the rental market.

Happy investing! 🏠💰
`
}

// Help lists every capability with example phrasings.
func (r *Renderer) Help() string {
	return fmt.Sprintf(`
**Welcome to Rental Property AI Assistant!** 🏠

I can help you with:

**1. Demand Forecasting**
- "What's the demand in Mumbai for August 2024?"
- "Predict rental demand in Delhi"
- "How many rentals in Bangalore next month?"

**2. Investment Opportunities (High Demand)**
- "Show me investment opportunities in Mumbai"
- "Which areas in Delhi have high demand?"
- "Where should I invest in Bangalore?"

**3. Low Demand Areas (For Renters/Buyers)**
- "Which areas have low demand in Mumbai?"
- "Show me affordable areas in Delhi"
- "Where is it cheap in Bangalore?"

**4. Oversupplied Markets (Renter's/Buyer's Market)**
- "Which areas are oversupplied in Mumbai?"
- "Show me renter's market in Delhi"
- "Buyer's market in Bangalore"

**5. Historical Data**
- "Show historical demand in Chennai"
- "Past trends in Pune"
- "Historical data for Hyderabad"

**Supported Cities**: %s, and more!

Just ask me in natural language! 😊
`, r.citySample(10))
}

// Default is the fallback for queries no intent matched.
func (r *Renderer) Default() string {
	return fmt.Sprintf(`Hmm, I'm not quite sure what you're asking about. 🤔

I specialize in rental property insights! I can help you with:

💡 **Try asking me:**
- "What's the demand in Mumbai?" - for demand forecasting
- "Where should I invest in Delhi?" - for investment opportunities
- "Show me Bangalore trends" - for historical data

**Supported cities**: %s, and more!

Could you rephrase your question? Or type "help" for more examples! 😊
`, r.citySample(8))
}

// ClarifyCity asks which city the user means. Issued when an intent
// needs a city but neither the query nor the dialogue context has one.
func (r *Renderer) ClarifyCity() string {
	return fmt.Sprintf(`I'd love to help! 😊 But I need to know which city you're interested in.

**Supported cities include**: %s, and more!

**Try asking:**
- "What's the demand in Mumbai?"
- "Show me opportunities in Delhi"
- "Bangalore rental trends"

Which city would you like to know about?
`, r.citySample(8))
}

// ContextNote appends the reused-city notice to a rendered answer.
func ContextNote(city string) string {
	return fmt.Sprintf("\n\nSince you didn't mention a city, I'll use your last mentioned city: **%s**.", city)
}
