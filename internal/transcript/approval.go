package transcript

import "strings"

// approvalPatterns are substrings that indicate the assistant is asking
// for permission or confirmation. The set is deliberately broad: a
// false positive costs one extra announcement, a false negative leaves
// the user unaware their input is blocking progress.
var approvalPatterns = []string{
	"would you like",
	"should i proceed",
	"shall i continue",
	"do you want",
	"is this okay",
	"confirm",
	"approve",
	"permission to",
	"may i",
	"can i proceed",
	"before i continue",
	"do you approve",
	"is it okay to",
	"should i go ahead",
	"ready to proceed",
	"waiting for your",
	"need your approval",
	"requires your approval",
	"please confirm",
	"yes or no",
	"y/n",
	"(y/n)",
	"[y/n]",
	"proceed with",
	"continue with",
	"allow me to",
	"requires permission",
	"awaiting confirmation",
	"please respond",
	"let me know if",
	"if you'd like me to",
}

// DetectApprovalRequest reports whether text reads like an approval or
// permission request.
func DetectApprovalRequest(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range approvalPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
