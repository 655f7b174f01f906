package reddit

import "strings"

// keywordCommunities maps query keywords to communities known to host good
// discussions on the subject. Checked in order so more specific topics win
// over generic ones.
var keywordCommunities = []struct {
	keyword   string
	community string
}{
	{"programming", "programming"},
	{"code", "programming"},
	{"java", "java"},
	{"python", "Python"},
	{"javascript", "javascript"},
	{"technology", "technology"},
	{"tech", "technology"},
	{"science", "science"},
	{"cooking", "Cooking"},
	{"recipe", "recipes"},
	{"fitness", "Fitness"},
	{"workout", "Fitness"},
	{"travel", "travel"},
	{"movies", "movies"},
	{"film", "movies"},
	{"books", "books"},
	{"reading", "books"},
	{"music", "Music"},
	{"gaming", "gaming"},
	{"game", "gaming"},
	{"health", "Health"},
	{"money", "personalfinance"},
	{"finance", "personalfinance"},
	{"career", "careerguidance"},
	{"job", "jobs"},
}

// backupCommunities are broad general-interest communities swept as a last
// resort when every targeted strategy came up short.
var backupCommunities = []string{
	"AskReddit",
	"explainlikeimfive",
	"LifeProTips",
	"todayilearned",
}

// SuggestCommunity returns a community likely to discuss the query's topic,
// falling back to AskReddit.
func SuggestCommunity(query string) string {
	lower := strings.ToLower(query)
	for _, kc := range keywordCommunities {
		if strings.Contains(lower, kc.keyword) {
			return kc.community
		}
	}
	return "AskReddit"
}
