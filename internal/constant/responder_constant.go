package constant

const (
	ResponderGreetingText = "Hello! How can I assist you today?"
	ResponderFallbackText = "I'm sorry, I don't have information about that."
	ResponderClarifyText  = "Could you please rephrase your question?"

	ResponderWebSocketPath = "/qa"
)
