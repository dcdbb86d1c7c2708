package statement

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Data carries everything the commission statement prints. All fields
// are preformatted strings so the renderer stays layout-only.
type Data struct {
	StatementNumber string
	CenterName      string
	CenterCity      string
	CenterPhone     string
	PeriodStart     string
	PeriodEnd       string
	GeneratedAt     string

	VisitCount    string
	Commission    string
	CashbackUsed  string
	AmountDue     string
	PaymentStatus string
	ReceiptRef    string
}

type Generator interface {
	Render(ctx context.Context, data Data) (io.Reader, error)
}

type marotoGenerator struct{}

func NewGenerator() Generator {
	return &marotoGenerator{}
}

func (g *marotoGenerator) Render(_ context.Context, data Data) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Commission statement", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Statement: "+data.StatementNumber, props.Text{Top: 0}),
			text.New("Period: "+data.PeriodStart+" to "+data.PeriodEnd, props.Text{Top: 4}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New(data.CenterName, props.Text{Style: fontstyle.Bold}),
			text.New(data.CenterCity, props.Text{Top: 5}),
			text.New(data.CenterPhone, props.Text{Top: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(8, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(8, "Visits in period", props.Text{Size: 9}),
		text.NewCol(4, data.VisitCount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(8, "Platform commission", props.Text{Size: 9}),
		text.NewCol(4, data.Commission, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(8, "Cashback redeemed by customers", props.Text{Size: 9}),
		text.NewCol(4, data.CashbackUsed, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(8, "Amount due", props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
		text.NewCol(4, data.AmountDue, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 3}),
	)

	m.AddRow(10,
		text.NewCol(12, "Payment status: "+data.PaymentStatus, props.Text{Size: 9, Top: 2}),
	)
	if data.ReceiptRef != "" {
		m.AddRow(8,
			text.NewCol(12, "Receipt reference: "+data.ReceiptRef, props.Text{Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

// FormatMoney renders an integer currency amount with thin group
// separators, e.g. 1234500 -> "1 234 500".
func FormatMoney(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
