package event

// OTPIssuedTopic is the default topic for issued codes; deployments override
// it with modules.account.topic.otp_issued.
const OTPIssuedTopic string = "account.otp.issued"

// OTPIssuedConsumerNotification is the consumer group of the notification module.
const OTPIssuedConsumerNotification string = "account.otp.issued.notification"

// OTPIssued carries a freshly issued code to whoever mails it.
type OTPIssued struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"display_name"`
	Purpose     string `json:"purpose"`
	Code        string `json:"code"`
	ExpiresAt   int64  `json:"expires_at"`
}
