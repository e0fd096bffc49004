package runtime

// Fixed replies. Markdown is interpreted by the web client and the terminal renderer.
const (
	MsgEmptyInput = "Please type a message so I can help you with INEC CVR services."

	MsgAllStepsDone = "You've completed all steps! 🎉"

	MsgBootstrapDone = "🎉 **Great! You're now signed into the INEC CVR portal.**\n\n" +
		"**Which service would you like to proceed with?**"
	MsgBootstrapMenuFooter = "Just tell me which service you need help with!"

	MsgUnknownService       = "I'm not sure which service you need. Please choose one:"
	MsgUnknownServiceFooter = "Which one would you like assistance with?"

	MsgChooseDifferent = "Okay, let's choose a different service. What would you like help with?"

	MsgBootstrapClarify = "No problem! Let me help you with this step:"
	MsgServiceClarify   = "Let me help with this step:"

	MsgClosingPrompt = "Would you like to:\n" +
		"• **Start over** with a new service\n" +
		"• Get help with something **else**\n" +
		"• **End** this conversation"
)
