package models

// UserProfile is the read-only profile shape this service consumes for
// enrichment. Profile storage itself is owned by the user service.
type UserProfile struct {
	UserID       string   `dynamodbav:"userId" json:"_id"`
	Name         string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Age          int      `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Photos       []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	UserLocation string   `dynamodbav:"userLocation,omitempty" json:"userLocation,omitempty"`
	IsOnline     bool     `dynamodbav:"isOnline" json:"isOnline"`
	LastSeen     string   `dynamodbav:"lastSeen,omitempty" json:"lastSeen,omitempty"`
}

// FirstPhotoKey returns the S3 key of the profile's primary photo, or ""
func (p *UserProfile) FirstPhotoKey() string {
	if p == nil || len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
