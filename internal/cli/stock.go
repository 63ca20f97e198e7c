package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

func (e *env) stockCommand() *cli.Command {
	return &cli.Command{
		Name:  "stock",
		Usage: "restocks and stock history",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "record received units of a variant",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "variant", Usage: "variant ID", Required: true},
					&cli.IntFlag{Name: "qty", Usage: "units received", Required: true},
					&cli.StringFlag{Name: "note"},
				},
				Action: func(c *cli.Context) error {
					if c.Int("qty") <= 0 {
						return fmt.Errorf("qty must be greater than zero")
					}
					shop, err := e.client(c)
					if err != nil {
						return err
					}
					v, err := shop.ImportStock(c.Context, shopapi.StockImport{
						VariantID: c.Int64("variant"),
						Quantity:  c.Int("qty"),
						Note:      strings.TrimSpace(c.String("note")),
					})
					if err != nil {
						return describe(err)
					}
					return e.out.object(v, fmt.Sprintf("Variant %d (%s/%s) now has %d in stock", v.ID, v.Color, v.Size, v.Stock))
				},
			},
			{
				Name:  "history",
				Usage: "stock changes, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Usage: "import|order"},
					&cli.StringFlag{Name: "sku"},
					&cli.BoolFlag{Name: "by-day", Usage: "group by day with in/out totals"},
				},
				Action: func(c *cli.Context) error {
					sf := catalog.StockHistoryFilter{SKU: c.String("sku")}
					if s := c.String("reason"); s != "" {
						reason := models.StockReason(strings.ToLower(s))
						if reason != models.StockReasonImport && reason != models.StockReasonOrder {
							return fmt.Errorf("reason must be import or order")
						}
						sf.Reason = &reason
					}

					shop, err := e.client(c)
					if err != nil {
						return err
					}
					entries, err := shop.StockHistory(c.Context)
					if err != nil {
						return describe(err)
					}

					page, _ := catalog.FilterStockHistory(entries, sf)
					if c.Bool("by-day") {
						days := catalog.GroupStockHistoryByDay(page, time.Local)
						rows := make([][]string, len(days))
						for i, d := range days {
							rows[i] = []string{d.Date, "+" + strconv.Itoa(d.In), "-" + strconv.Itoa(d.Out), strconv.Itoa(len(d.Entries))}
						}
						return e.out.table(days, []string{"DATE", "IN", "OUT", "ENTRIES"}, rows)
					}

					rows := make([][]string, len(page))
					for i, h := range page {
						rows[i] = []string{formatTime(h.CreatedAt), h.ProductSKU, h.ProductName, fmt.Sprintf("%+d", h.ChangeQty), string(h.Reason)}
					}
					return e.out.table(page, []string{"WHEN", "SKU", "PRODUCT", "CHANGE", "REASON"}, rows)
				},
			},
		},
	}
}
