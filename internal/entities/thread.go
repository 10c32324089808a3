package entities

// Thread is a reconstructed reply chain: the root tweet first, then its
// descendants in breadth-first, ascending-id order. A thread is never empty
// and every tweet past the first is reachable from the root via in-archive
// reply links.
type Thread []*Tweet

// Root returns the thread's first tweet.
func (th Thread) Root() *Tweet {
	return th[0]
}

// ID returns the root tweet's identifier, which also identifies the thread
// in the processed-ids file.
func (th Thread) ID() string {
	return th[0].IDStr
}

// ArchiveLocation is a resolved archive root. Immutable once resolved.
type ArchiveLocation struct {
	Root        string // directory containing data/
	TweetsPath  string // data/tweets.js (or .json)
	AccountPath string // data/account.js, may not exist
	MediaDir    string // data/tweets_media
}

// ImportContext is the prepared state for one archive under the current
// settings: the date-filtered thread list, the subset still pending, and the
// summary counts shown before a run. It is rebuilt wholesale on every
// settings change, never patched in place.
type ImportContext struct {
	Location ArchiveLocation
	Account  *Account

	// Threads is the full in-range list, order-stable across rebuilds.
	Threads []Thread
	// Pending is the subset of Threads whose root id is not yet recorded
	// in the processed-ids file.
	Pending []Thread
	// Processed holds the ids loaded from the processed-ids file.
	Processed map[string]struct{}
	// AllIDs holds every tweet id in the archive, used for self-quote
	// detection.
	AllIDs map[string]struct{}

	TotalTweets         int
	ThreadsBeforeFilter int
	ThreadsAfterFilter  int
	// AlreadyImported counts dedup hits within the current date-filtered
	// list. A narrowed date range therefore understates total historical
	// imports; this mirrors the numbers the original tool displayed.
	AlreadyImported int
}
