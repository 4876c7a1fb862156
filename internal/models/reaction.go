package models

import (
	"encoding/json"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReactionKey is the stable storage key of an emoji reaction.
type ReactionKey string

const (
	ReactionHeart    ReactionKey = "heart"
	ReactionLaugh    ReactionKey = "laugh"
	ReactionSmile    ReactionKey = "smile"
	ReactionThumbsUp ReactionKey = "thumbsup"
	ReactionFire     ReactionKey = "fire"
)

// ReactionKeys lists every reaction in display order.
var ReactionKeys = []ReactionKey{
	ReactionHeart,
	ReactionLaugh,
	ReactionSmile,
	ReactionThumbsUp,
	ReactionFire,
}

var reactionGlyphs = map[ReactionKey]string{
	ReactionHeart:    "❤️",
	ReactionLaugh:    "😂",
	ReactionSmile:    "😊",
	ReactionThumbsUp: "👍",
	ReactionFire:     "🔥",
}

// Glyph keys written by the browser version of the app.
var legacyReactionKeys = map[string]ReactionKey{
	"❤️": ReactionHeart,
	"❤":  ReactionHeart,
	"😂":  ReactionLaugh,
	"😊":  ReactionSmile,
	"👍":  ReactionThumbsUp,
	"🔥":  ReactionFire,

	// Exact keys written by the browser app, whose source held the glyphs
	// as windows-1252 mojibake with the undefined bytes 0x8D, 0x8F and 0x9D
	// dropped. Heart and thumbsup do not survive a re-encode.
	"â¤ï¸": ReactionHeart,
	"ðŸ˜‚": ReactionLaugh,
	"ðŸ˜Š": ReactionSmile,
	"ðŸ‘":  ReactionThumbsUp,
	"ðŸ”¥": ReactionFire,
}

// legacyReactionKey resolves a glyph key, including glyphs that were saved as
// UTF-8 bytes misread as windows-1252.
func legacyReactionKey(s string) (ReactionKey, bool) {
	if key, ok := legacyReactionKeys[s]; ok {
		return key, true
	}
	repaired, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(repaired) {
		return "", false
	}
	key, ok := legacyReactionKeys[repaired]
	return key, ok
}

// ParseReactionKey reports whether s names one of the fixed reactions.
func ParseReactionKey(s string) (ReactionKey, bool) {
	key := ReactionKey(s)
	_, ok := reactionGlyphs[key]
	return key, ok
}

// Glyph returns the emoji rendered for the key.
func (k ReactionKey) Glyph() string {
	return reactionGlyphs[k]
}

// Reactions maps each reaction key to its count.
type Reactions map[ReactionKey]int

// NewReactions returns a zeroed count for every key.
func NewReactions() Reactions {
	r := make(Reactions, len(ReactionKeys))
	for _, k := range ReactionKeys {
		r[k] = 0
	}
	return r
}

func (r Reactions) Clone() Reactions {
	if r == nil {
		return nil
	}
	cp := make(Reactions, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// Total sums the counts of every key.
func (r Reactions) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// UnmarshalJSON accepts both stable keys and legacy glyph keys. Unknown keys
// are dropped and every known key is present afterwards.
func (r *Reactions) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewReactions()
	for k, v := range raw {
		key, ok := ParseReactionKey(k)
		if !ok {
			key, ok = legacyReactionKey(k)
		}
		if !ok {
			continue
		}
		if v < 0 {
			v = 0
		}
		out[key] += v
	}
	*r = out
	return nil
}

// UnmarshalJSON maps legacy glyph values onto stable keys.
func (k *ReactionKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if key, ok := ParseReactionKey(s); ok {
		*k = key
		return nil
	}
	if key, ok := legacyReactionKey(s); ok {
		*k = key
		return nil
	}
	*k = ReactionKey(s)
	return nil
}
