package entities

// CategoryKind tags the social shape of a thread, derived from its root
// tweet. The kind drives journal routing; Label carries the human form used
// in titles ("Retweeted Alice", "Replied to Bob and Carol").
type CategoryKind string

const (
	KindRetweet CategoryKind = "retweet"
	KindQuote   CategoryKind = "quote"
	KindReply   CategoryKind = "reply"
	KindCallout CategoryKind = "callout"
	KindThread  CategoryKind = "thread"
	KindTweet   CategoryKind = "tweet"
	// KindNotReply is the fallback for a reply whose handles cannot be
	// resolved. Should not occur with real archives.
	KindNotReply CategoryKind = "not_a_reply"
)

type Category struct {
	Kind  CategoryKind
	Label string
	// SelfQuote is set on quote categories when the quoted status belongs
	// to the archive owner.
	SelfQuote bool
	// Handles lists the resolved screen names a reply or callout
	// addresses, in order of first appearance.
	Handles []string
}
