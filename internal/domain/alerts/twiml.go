package alerts

import (
	"github.com/twilio/twilio-go/twiml"
)

// VoiceResponseXML arma el TwiML <Response><Say voice="alice">msg</Say></Response>.
func VoiceResponseXML(message string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: message, Voice: "alice"},
	})
}
