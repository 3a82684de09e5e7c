// internal/domain/trend/model.go

package trend

// Trend is a currently popular hashtag snapshot. The whole table is replaced
// on each periodic refresh, so rows carry no identity beyond the tag itself.
type Trend struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	URL                 string `json:"url"`
	UsesInLastSevenDays int    `json:"uses_in_last_seven_days"`
}

// Suspicious is a tag flagged as anomalously promoted. Rows are upserted
// keyed by URL and never deleted; NumberOfSimilarStatuses only grows.
type Suspicious struct {
	ID                      int64  `json:"id"`
	Name                    string `json:"name"`
	URL                     string `json:"url"`
	UsesInLastSevenDays     int    `json:"uses_in_last_seven_days"`
	NumberOfAccounts        int    `json:"number_of_accounts"`
	InstanceURL             string `json:"instance_url"`
	NumberOfSimilarStatuses int    `json:"number_of_similar_statuses"`
}
