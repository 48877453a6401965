package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// APIDateLayout is the date form the inflow and outflow endpoints expect.
const APIDateLayout = "02/Jan/2006"

var (
	ErrInvalidAmount  = errors.New("enter an amount greater than zero")
	ErrInvalidChannel = errors.New("unknown payment channel")
)

var PaymentChannels = []string{"transfer", "cash", "pos", "card"}

// ID accepts a JSON string or number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*id = ID(n.String())

	return nil
}

// Flow is an inflow or outflow entry.
type Flow struct {
	ID             ID              `json:"id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Date           string          `json:"date"`
	PaymentChannel string          `json:"paymentchannel,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// FlowForm is user input for a new Flow. Date is YYYY-MM-DD or already in
// the API form.
type FlowForm struct {
	Amount         string
	Date           string
	PaymentChannel string
	Note           string
}

// APIDate converts YYYY-MM-DD to APIDateLayout. Values that already contain
// a slash, or that do not parse, are returned unchanged.
func APIDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, "/") {
		return value
	}

	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return value
	}

	return parsed.Format(APIDateLayout)
}

// Build validates form. A blank date means today.
func (f FlowForm) Build(now time.Time) (Flow, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil || !amount.IsPositive() {
		return Flow{}, ErrInvalidAmount
	}

	channel := strings.ToLower(strings.TrimSpace(f.PaymentChannel))
	if channel == "" {
		channel = PaymentChannels[0]
	}

	if !slices.Contains(PaymentChannels, channel) {
		return Flow{}, ErrInvalidChannel
	}

	date := f.Date
	if strings.TrimSpace(date) == "" {
		date = now.Format(time.DateOnly)
	}

	return Flow{
		Amount:         amount,
		Date:           APIDate(date),
		PaymentChannel: channel,
		Note:           strings.TrimSpace(f.Note),
	}, nil
}

// CreateFlow validates form and posts it to r.
func CreateFlow(ctx context.Context, r *Resource[Flow], form FlowForm) (*Flow, error) {
	flow, err := form.Build(time.Now())
	if err != nil {
		return nil, err
	}

	return r.Create(ctx, flow)
}

// Total sums the amounts of flows.
func Total(flows []Flow) decimal.Decimal {
	total := decimal.Zero
	for _, f := range flows {
		total = total.Add(f.Amount)
	}

	return total
}
