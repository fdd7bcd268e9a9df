package util

const (
	DefaultTopApplicants = 10
	MaxTopApplicants     = 50
)

// ApplicationSortColumns maps the public sortBy names to columns.
var ApplicationSortColumns = map[string]string{
	"scorePercentage": "score_percentage",
	"appliedAt":       "applied_at",
	"applicantName":   "applicant_name",
}
