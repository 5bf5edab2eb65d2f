package models

// DeviceToken is one push registration for a user's device.
type DeviceToken struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	FCMToken  string `dynamodbav:"fcmToken" json:"fcmToken"`
	Platform  string `dynamodbav:"platform" json:"platform"` // android, ios
	DeviceID  string `dynamodbav:"deviceId,omitempty" json:"deviceId,omitempty"`
	IsActive  bool   `dynamodbav:"isActive" json:"isActive"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// PushNotification is the provider-agnostic payload handed to the push
// collaborator. Delivery mechanics (FCM/APNs multicast, retries) live there.
type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// DeviceTokensTable is the DynamoDB table name for device tokens
const DeviceTokensTable = "DeviceTokens"

// UserIDIndex serves token lookups by owner (HASH userId)
const UserIDIndex = "userId-index"
