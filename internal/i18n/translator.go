package i18n

// Package i18n provides the localization service used when composing
// user-visible share messages. Messages are keyed by their English format
// string, following the x/text message catalog convention.

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/target/sharelink-gateway/internal/domain/share"
)

// Key is a translatable message key. The key doubles as the English source
// text.
type Key string

const (
	// KeySharedFolder announces a folder share on the credential page.
	KeySharedFolder Key = `%s has shared the folder "%s" with you.`
	// KeySharedFile announces a file share on the credential page.
	KeySharedFile Key = `%s has shared the file "%s" with you.`
	// KeySharedItems announces a share whose target could not be described.
	KeySharedItems Key = `%s has shared items with you.`
	// KeyShareGone explains that the share's target no longer exists.
	KeyShareGone Key = `The share you are looking for does not exist anymore.`
	// KeySomeone stands in for a sharer whose record could not be resolved.
	KeySomeone Key = `Someone`
)

var keys = []Key{KeySharedFolder, KeySharedFile, KeySharedItems, KeyShareGone, KeySomeone}

// translations holds non-English catalogs. The base locale is en-US; the key
// itself is the en-US text.
var translations = map[language.Tag]map[Key]string{
	language.German: {
		KeySharedFolder: `%s hat den Ordner "%s" mit Ihnen geteilt.`,
		KeySharedFile:   `%s hat die Datei "%s" mit Ihnen geteilt.`,
		KeySharedItems:  `%s hat Elemente mit Ihnen geteilt.`,
		KeyShareGone:    `Die gesuchte Freigabe existiert nicht mehr.`,
		KeySomeone:      `Jemand`,
	},
	language.French: {
		KeySharedFolder: `%s a partagé le dossier "%s" avec vous.`,
		KeySharedFile:   `%s a partagé le fichier "%s" avec vous.`,
		KeySharedItems:  `%s a partagé des éléments avec vous.`,
		KeyShareGone:    `Le partage que vous recherchez n'existe plus.`,
		KeySomeone:      `Quelqu'un`,
	},
}

// Translator resolves a guest locale to the best supported language and
// formats messages from its catalog.
type Translator struct {
	cat     catalog.Catalog
	matcher language.Matcher
}

// New builds a Translator with the embedded catalogs.
func New() (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for _, k := range keys {
		if err := b.SetString(language.AmericanEnglish, string(k), string(k)); err != nil {
			return nil, err
		}
	}
	for tag, msgs := range translations {
		for k, text := range msgs {
			if err := b.SetString(tag, string(k), text); err != nil {
				return nil, err
			}
		}
	}
	// The matcher's first tag is the fallback; keep en-US there.
	supported := []language.Tag{language.AmericanEnglish}
	for tag := range translations {
		supported = append(supported, tag)
	}
	return &Translator{
		cat:     b,
		matcher: language.NewMatcher(supported),
	}, nil
}

// Translate formats the message for the given locale, falling back to en-US
// when the locale is unknown or unsupported.
func (t *Translator) Translate(locale string, key Key, args ...any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	tag, _, _ = t.matcher.Match(tag)
	p := message.NewPrinter(tag, message.Catalog(t.cat))
	return p.Sprintf(string(key), args...)
}

// ShareMessage composes the localized "who shared what with whom" line for
// the credential page from the sharer's display name and the target proxy.
func (t *Translator) ShareMessage(locale, sharer string, proxy *share.TargetProxy) string {
	if proxy == nil {
		return t.Translate(locale, KeySharedItems, sharer)
	}
	switch proxy.Kind {
	case share.TargetFile:
		return t.Translate(locale, KeySharedFile, sharer, proxy.Title)
	default:
		return t.Translate(locale, KeySharedFolder, sharer, proxy.Title)
	}
}
