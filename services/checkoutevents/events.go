package checkoutevents

const (
	TopicName           = "checkout"
	checkoutStartedName = TopicName + ".started"
)

// CheckoutStarted is published once the payment provider has created a checkout session. What happens to the
// session afterwards is tracked by the provider.
type CheckoutStarted struct {
	ProviderName   string
	SessionUID     string
	ProductUID     string
	AmountInCents  int64
	Currency       string
	IdempotencyKey string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.SessionUID
}
