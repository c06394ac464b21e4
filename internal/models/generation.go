package models

// GeneratedCard is a card candidate produced by the remote generator.
type GeneratedCard struct {
	Word               string `json:"word"`
	TranslatedWord     string `json:"t_word"`
	Description        string `json:"description"`
	Pronunciation      string `json:"pronunciation"`
	PartOfSpeech       string `json:"part_of_speech"`
	Synonyms           string `json:"synonyms"`
	Sentence           string `json:"sentence"`
	TranslatedSentence string `json:"t_sentence"`
}

func (g GeneratedCard) Fields() CardFields {
	return CardFields{
		Word:           g.Word,
		TranslatedWord: g.TranslatedWord,
		Description:    g.Description,
		Pronunciation:  g.Pronunciation,
		PartOfSpeech:   g.PartOfSpeech,
		Synonyms:       g.Synonyms,
		Sentence:       g.Sentence,
	}
}

// LanguagePair names the user's native and target languages.
type LanguagePair struct {
	Native   string `json:"n_language"`
	Learning string `json:"l_language"`
}

type ChatReply struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Data      string `json:"data"`
}
