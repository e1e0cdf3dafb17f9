package domain

import (
	"context"
	"errors"
	"fmt"
)

// MsgNotFound is the message returned when no textbook content matches a question.
const MsgNotFound = "দুঃখিত, পাঠ্যবইয়ে এই প্রশ্নের উত্তর খুঁজে পাওয়া যায়নি। (No relevant content was found in the textbooks.)"

// MsgKeywordOnly is shown alongside answers built from keyword search only.
const MsgKeywordOnly = "সতর্কতা: শুধু শব্দভিত্তিক অনুসন্ধান ব্যবহার করা হয়েছে। (Only keyword search was available.)"

var errNoRelevantContent = fmt.Errorf("%w: %s", ErrNotFound, MsgNotFound)

// UserMessage maps an error to a localized message suitable for end users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrAPIKeyMissing), errors.Is(err, ErrLLMUnavailable):
		return "দুঃখিত, উত্তর তৈরির সেবাটি এখনো কনফিগার করা হয়নি। (The answer service is not configured.)"
	case errors.Is(err, ErrRateLimited):
		return "অনেক বেশি অনুরোধ হয়েছে, একটু পরে আবার চেষ্টা করুন। (Too many requests, please try again shortly.)"
	case errors.Is(err, ErrQuotaExceeded):
		return "আজকের প্রশ্নের সীমা শেষ হয়েছে, আগামীকাল আবার চেষ্টা করুন। (Daily question limit reached, try again tomorrow.)"
	case errors.Is(err, context.DeadlineExceeded):
		return "সেবাটি সময়মতো সাড়া দেয়নি, আবার চেষ্টা করুন। (The service timed out, please try again.)"
	case errors.Is(err, ErrCorpusUnavailable):
		return "পাঠ্যবই লোড করা যায়নি। (The textbooks could not be loaded.)"
	default:
		return "দুঃখিত, একটি সমস্যা হয়েছে। আবার চেষ্টা করুন। (Sorry, something went wrong. Please try again.)"
	}
}
