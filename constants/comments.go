package constants

// Reaction vocabulary.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionAngry = "angry"
	ReactionSad   = "sad"
)

var ReactionTypes = []string{
	ReactionLike,
	ReactionLove,
	ReactionLaugh,
	ReactionAngry,
	ReactionSad,
}

// Comment sort options.
const (
	SortNewest        = "newest"
	SortOldest        = "oldest"
	SortMostReactions = "most_reactions"
)

// MaxCommentDepth is the deepest comment level accepted on write and
// rendered on read. Root comments sit at depth 0, so a thread is
// root -> reply -> nested reply and no further.
const MaxCommentDepth = 2

func IsReactionType(t string) bool {
	for _, r := range ReactionTypes {
		if r == t {
			return true
		}
	}
	return false
}

func IsSortOption(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortMostReactions:
		return true
	}
	return false
}
