package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	"github.com/rogerio-castellano/order-desk/internal/events"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
)

func idArg(c *cli.Context, i int, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Args().Get(i), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, c.Args().Get(i))
	}
	return id, nil
}

func (e *env) ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "orders",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list orders, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: strings.Join(statusNames(), "|")},
				},
				Action: func(c *cli.Context) error {
					var of catalog.OrderFilter
					if s := c.String("status"); s != "" {
						status, err := models.ParseOrderStatus(s)
						if err != nil {
							return err
						}
						of.Status = &status
					}

					shop, err := e.client(c)
					if err != nil {
						return err
					}
					orders, err := shop.ListOrders(c.Context)
					if err != nil {
						return describe(err)
					}

					page, _ := catalog.FilterOrders(orders, of)
					rows := make([][]string, len(page))
					for i, o := range page {
						rows[i] = []string{
							"#" + strconv.FormatInt(o.ID, 10),
							strconv.FormatInt(o.CustomerID, 10),
							string(o.Status),
							money(int64(o.Total)),
							money(int64(o.Deposit)),
							money(int64(o.Balance())),
							o.ChinaTrackingCode,
							formatTime(o.CreatedAt),
						}
					}
					return e.out.table(page, []string{"ORDER", "CUSTOMER", "STATUS", "TOTAL", "DEPOSIT", "BALANCE", "TRACKING", "CREATED"}, rows)
				},
			},
			{
				Name:      "status",
				Usage:     "change the status of an order",
				ArgsUsage: "<order id> <" + strings.Join(statusNames(), "|") + ">",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("usage: deskctl orders status <order id> <status>")
					}
					id, err := idArg(c, 0, "order id")
					if err != nil {
						return err
					}
					status, err := models.ParseOrderStatus(c.Args().Get(1))
					if err != nil {
						return err
					}

					shop, err := e.client(c)
					if err != nil {
						return err
					}
					order, err := shop.UpdateOrderStatus(c.Context, id, status)
					if err != nil {
						return describe(err)
					}
					return e.out.object(order, fmt.Sprintf("Order #%d is now %s", order.ID, order.Status))
				},
			},
			{
				Name:      "tracking",
				Usage:     "set the China tracking code of an order",
				ArgsUsage: "<order id> <code>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("usage: deskctl orders tracking <order id> <code>")
					}
					id, err := idArg(c, 0, "order id")
					if err != nil {
						return err
					}

					shop, err := e.client(c)
					if err != nil {
						return err
					}
					order, err := shop.UpdateOrderTracking(c.Context, id, strings.TrimSpace(c.Args().Get(1)))
					if err != nil {
						return describe(err)
					}
					return e.out.object(order, fmt.Sprintf("Order #%d tracking code set to %s", order.ID, order.ChinaTrackingCode))
				},
			},
		},
	}
}

func statusNames() []string {
	var names []string
	for _, s := range models.OrderStatuses() {
		names = append(names, string(s))
	}
	return names
}

// orderCommand creates one order from variants of a single product. Each
// --variant adds one unit, so repeating a variant raises its quantity.
func (e *env) orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "order entry",
		Subcommands: []*cli.Command{{
			Name:  "create",
			Usage: "create an order for an existing or a new customer",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "product", Usage: "product ID", Required: true},
				&cli.Int64SliceFlag{Name: "variant", Usage: "variant ID, once per unit", Required: true},
				&cli.Int64Flag{Name: "customer", Usage: "existing customer ID"},
				&cli.StringFlag{Name: "name", Usage: "new customer name"},
				&cli.StringFlag{Name: "phone", Usage: "new customer phone"},
				&cli.StringFlag{Name: "address", Usage: "new customer address"},
				&cli.StringFlag{Name: "deposit", Usage: "deposit as typed, e.g. 50.000"},
			},
			Action: func(c *cli.Context) error {
				shop, err := e.client(c)
				if err != nil {
					return err
				}

				productID := c.Int64("product")
				product, err := shop.GetProduct(c.Context, productID)
				if err != nil {
					return describe(err)
				}
				variants, err := shop.VariantsByProduct(c.Context, productID)
				if err != nil {
					return describe(err)
				}
				byID := make(map[int64]models.Variant, len(variants))
				for _, v := range variants {
					byID[v.ID] = v
				}

				cr := cart.New()
				for _, id := range c.Int64Slice("variant") {
					v, ok := byID[id]
					if !ok {
						return fmt.Errorf("variant %d does not belong to product %d", id, productID)
					}
					if err := cr.Add(product, v); err != nil {
						return err
					}
				}

				req := checkout.Request{
					Cart:              cr,
					CustomerID:        c.Int64("customer"),
					Deposit:           c.String("deposit"),
					SelectedProductID: productID,
				}
				if req.CustomerID == 0 {
					req.NewCustomer = &checkout.NewCustomer{
						Name:    c.String("name"),
						Phone:   c.String("phone"),
						Address: c.String("address"),
					}
				}

				svc := checkout.NewService(shop, repo.NewInMemorySubmissionRepository(), events.Noop{})
				res, err := svc.Submit(c.Context, 0, req)
				if err != nil {
					return describeCheckout(err)
				}

				lines := []string{
					fmt.Sprintf("Order #%d created for customer %d", res.OrderID, res.CustomerID),
					fmt.Sprintf("Items:     %d", res.ItemCount),
					fmt.Sprintf("Subtotal:  %s", money(int64(res.Totals.Subtotal))),
					fmt.Sprintf("Deposit:   %s", money(int64(res.Totals.Deposit))),
					fmt.Sprintf("Remaining: %s", money(int64(res.Totals.Remaining))),
				}
				if res.CustomerCreated {
					lines = append(lines, "New customer created")
				}
				return e.out.object(res, lines...)
			},
		}},
	}
}

func describeCheckout(err error) error {
	var orphaned *checkout.OrphanedCustomerError
	if errors.As(err, &orphaned) {
		return fmt.Errorf("customer %d was created but the order failed: %w", orphaned.CustomerID, describe(orphaned.Err))
	}
	var verrs checkout.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return describe(err)
}
