package emotion

import "strings"

// Label is one entry of the closed emotion vocabulary the classifier is
// trained on. Anything outside it is only tolerated by the sentiment
// table's neutral fallback.
type Label string

const (
	Neutral  Label = "neutral"
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Fear     Label = "fear"
	Disgust  Label = "disgust"
	Surprise Label = "surprise"
)

// Vocabulary lists every label in the model's output order.
func Vocabulary() []Label {
	return []Label{Neutral, Happy, Sad, Angry, Fear, Disgust, Surprise}
}

// ParseLabel canonicalizes a raw string. ok is false for labels outside
// the vocabulary.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case Neutral, Happy, Sad, Angry, Fear, Disgust, Surprise:
		return l, true
	}
	return l, false
}
