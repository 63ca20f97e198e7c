package cli

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
)

const lowStockThreshold = 5

func (e *env) productsCommand() *cli.Command {
	return &cli.Command{
		Name:  "products",
		Usage: "catalog products",
		Subcommands: []*cli.Command{{
			Name:  "list",
			Usage: "list products",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "q", Usage: "name or SKU contains"},
				&cli.StringFlag{Name: "category"},
				&cli.BoolFlag{Name: "low-stock", Usage: "only products at or below the low stock threshold"},
				&cli.IntFlag{Name: "threshold", Value: lowStockThreshold},
			},
			Action: func(c *cli.Context) error {
				shop, err := e.client(c)
				if err != nil {
					return err
				}
				products, err := shop.ListProducts(c.Context)
				if err != nil {
					return describe(err)
				}

				page, total := catalog.FilterProducts(products, catalog.ProductFilter{
					Query:     c.String("q"),
					Category:  c.String("category"),
					LowStock:  c.Bool("low-stock"),
					Threshold: c.Int("threshold"),
				})
				rows := make([][]string, len(page))
				for i, p := range page {
					rows[i] = []string{strconv.FormatInt(p.ID, 10), p.SKU, p.Name, p.Category, p.Brand, money(int64(p.SalePrice)), strconv.Itoa(p.Stock)}
				}
				if err := e.out.table(page, []string{"ID", "SKU", "NAME", "CATEGORY", "BRAND", "PRICE", "STOCK"}, rows); err != nil {
					return err
				}
				if !e.out.json && total > len(page) {
					e.out.line("(%d of %d shown)", len(page), total)
				}
				return nil
			},
		}},
	}
}

func (e *env) variantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "variants",
		Usage: "product variants",
		Subcommands: []*cli.Command{{
			Name:  "list",
			Usage: "list the variants of a product with availability",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "product", Usage: "product ID", Required: true},
			},
			Action: func(c *cli.Context) error {
				shop, err := e.client(c)
				if err != nil {
					return err
				}
				variants, err := shop.VariantsByProduct(c.Context, c.Int64("product"))
				if err != nil {
					return describe(err)
				}

				options := catalog.VariantOptions(variants)
				rows := make([][]string, len(options))
				for i, o := range options {
					avail := "yes"
					if !o.Available {
						avail = "out of stock"
					}
					price := ""
					if o.SalePrice > 0 {
						price = money(int64(o.SalePrice))
					}
					rows[i] = []string{strconv.FormatInt(o.ID, 10), o.Color, o.Size, strconv.Itoa(o.Stock), price, avail}
				}
				return e.out.table(options, []string{"ID", "COLOR", "SIZE", "STOCK", "PRICE", "AVAILABLE"}, rows)
			},
		}},
	}
}

func (e *env) customersCommand() *cli.Command {
	return &cli.Command{
		Name:  "customers",
		Usage: "customers",
		Subcommands: []*cli.Command{{
			Name:  "list",
			Usage: "list customers",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "q", Usage: "name or phone contains"},
			},
			Action: func(c *cli.Context) error {
				shop, err := e.client(c)
				if err != nil {
					return err
				}
				customers, err := shop.ListCustomers(c.Context)
				if err != nil {
					return describe(err)
				}

				page, _ := catalog.FilterCustomers(customers, catalog.CustomerFilter{Query: c.String("q")})
				rows := make([][]string, len(page))
				for i, cu := range page {
					rows[i] = []string{strconv.FormatInt(cu.ID, 10), cu.Name, cu.Phone, strconv.Itoa(cu.TotalOrders), money(int64(cu.TotalSpent))}
				}
				return e.out.table(page, []string{"ID", "NAME", "PHONE", "ORDERS", "SPENT"}, rows)
			},
		}},
	}
}

func (e *env) dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "inventory and sales figures",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "threshold", Value: lowStockThreshold, Usage: "low stock threshold"},
		},
		Action: func(c *cli.Context) error {
			shop, err := e.client(c)
			if err != nil {
				return err
			}
			products, err := shop.ListProducts(c.Context)
			if err != nil {
				return describe(err)
			}
			orders, err := shop.ListOrders(c.Context)
			if err != nil {
				return describe(err)
			}
			customers, err := shop.ListCustomers(c.Context)
			if err != nil {
				return describe(err)
			}

			m := catalog.Dashboard(products, orders, customers, c.Int("threshold"))
			lines := []string{
				"Products:            " + strconv.Itoa(m.TotalProducts),
				"Units in stock:      " + strconv.Itoa(m.TotalStock),
				"Low stock products:  " + strconv.Itoa(m.LowStockCount),
				"Inventory value:     " + money(int64(m.InventoryValue)),
				"Revenue:             " + money(int64(m.Revenue)),
				"Outstanding balance: " + money(int64(m.OutstandingBalance)),
			}
			for _, cu := range m.TopCustomers {
				lines = append(lines, "Top customer:        "+cu.Name+" ("+money(int64(cu.TotalSpent))+")")
			}
			return e.out.object(m, lines...)
		},
	}
}
