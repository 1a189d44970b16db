package progress

import (
	"math"
	"time"
)

// Classify decides the disposition of one coursework item. A missing submission
// is handled the same way as a NEW or CREATED one.
func Classify(item CourseworkItem, submission *SubmissionRecord, now time.Time) Disposition {
	due := ResolveDue(item.DueDate, item.DueTime, now.Location())

	if submission.delivered() {
		if due == nil || submission.UpdateTime == nil {
			return Disposition{Kind: KindDelivered, Due: due, SubmittedAt: submission.UpdateTime}
		}

		submittedAt := *submission.UpdateTime
		if !submittedAt.After(*due) {
			onTime := true
			return Disposition{Kind: KindDelivered, Due: due, SubmittedAt: &submittedAt, OnTime: &onTime}
		}

		onTime := false
		delay := int(math.Round(submittedAt.Sub(*due).Hours()))
		return Disposition{Kind: KindDelivered, Due: due, SubmittedAt: &submittedAt, OnTime: &onTime, DelayHours: &delay}
	}

	if due != nil && due.Before(now) {
		return Disposition{Kind: KindOverdue, Due: due}
	}
	return Disposition{Kind: KindPending, Due: due}
}

// Evaluate runs Classify once per item, keeping the input order.
func Evaluate(items []CourseworkItem, submissionsByItemId map[string]*SubmissionRecord, now time.Time) []ItemResult {
	results := make([]ItemResult, 0, len(items))
	for _, item := range items {
		submission := submissionsByItemId[item.Id]
		results = append(results, ItemResult{
			Item:        item,
			Submission:  submission,
			Disposition: Classify(item, submission, now),
		})
	}
	return results
}
