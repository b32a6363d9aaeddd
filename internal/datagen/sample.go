//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"math"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/extract"
	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

// Categories present in the synthetic extracts, with their English
// translations.
var sampleCategories = [][2]string{
	{"cama_mesa_banho", "bed_bath_table"},
	{"beleza_saude", "health_beauty"},
	{"esporte_lazer", "sports_leisure"},
	{"moveis_decoracao", "furniture_decor"},
	{"informatica_acessorios", "computers_accessories"},
	{"utilidades_domesticas", "housewares"},
	{"relogios_presentes", "watches_gifts"},
	{"telefonia", "telephony"},
	{"brinquedos", "toys"},
	{"perfumaria", "perfumery"},
}

var orderStatuses = []string{
	"delivered", "delivered", "delivered", "shipped", "invoiced", "processing",
}

// SampleConfig controls synthetic extract generation.
type SampleConfig struct {
	// Orders is the number of synthetic orders.
	Orders int

	// Seed makes generation reproducible when non-zero.
	Seed uint64
}

// Generator produces a full set of synthetic raw extracts with
// consistent cross-entity references.
type Generator struct {
	faker *Faker
	cfg   SampleConfig
}

// NewGenerator creates a sample extract generator.
func NewGenerator(cfg SampleConfig) *Generator {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}
	return &Generator{faker: f, cfg: cfg}
}

// Generate writes all nine raw extract files into dir.
func (g *Generator) Generate(dir string) error {
	nOrders := g.cfg.Orders
	nProducts := max(10, nOrders/2)
	nSellers := max(5, nOrders/20)
	nUnique := max(5, nOrders*3/4)

	logging.Info().
		Int("orders", nOrders).
		Int("products", nProducts).
		Int("sellers", nSellers).
		Msg("Generating sample extracts")

	sellers, sellerIDs, zips := g.sellers(nSellers)
	products, productIDs := g.products(nProducts)
	customers, customerIDs := g.customers(nOrders, nUnique, &zips)
	orders, orderInfo := g.orders(nOrders, customerIDs)
	items := g.orderItems(orderInfo, productIDs, sellerIDs)
	payments := g.payments(orderInfo)
	reviews := g.reviews(orderInfo)
	geo := g.geolocation(zips)
	translations := g.categoryTranslations()

	for entity, t := range map[string]*table.Table{
		"sellers":              sellers,
		"products":             products,
		"customers":            customers,
		"orders":               orders,
		"order_items":          items,
		"order_payments":       payments,
		"order_reviews":        reviews,
		"geolocation":          geo,
		"category_translation": translations,
	} {
		fs, err := schema.FileSchemaFor(entity)
		if err != nil {
			return err
		}
		if err := extract.WriteTable(dir, fs.File, t); err != nil {
			return fmt.Errorf("failed to write %s: %w", fs.File, err)
		}
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (g *Generator) sellers(n int) (*table.Table, []string, []int64) {
	ids := make([]string, n)
	zips := make([]int64, n)
	zipCol := make([]int64, n)
	cities := make([]string, n)
	states := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = g.faker.HexID()
		zips[i] = g.faker.Int64(1000, 99999)
		zipCol[i] = zips[i]
		cities[i] = g.faker.City()
		states[i] = g.faker.State()
	}
	t, _ := table.New("sellers",
		table.NewString("seller_id", ids),
		table.NewInt("seller_zip_code_prefix", zipCol),
		table.NewString("seller_city", cities),
		table.NewString("seller_state", states),
	)
	return t, ids, zips
}

func (g *Generator) products(n int) (*table.Table, []string) {
	ids := make([]string, n)
	category := table.NewBuilder("product_category_name", table.String)
	nameLen := table.NewBuilder("product_name_lenght", table.Float)
	descLen := table.NewBuilder("product_description_lenght", table.Float)
	photos := table.NewBuilder("product_photos_qty", table.Int)
	weight := make([]int64, n)
	length := make([]int64, n)
	height := make([]int64, n)
	width := make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = g.faker.HexID()
		// A few rows exercise the null-category fill.
		if g.faker.Int(1, 20) == 1 {
			category.AppendNull()
		} else {
			category.AppendString(Choose(g.faker, sampleCategories)[0])
		}
		if g.faker.Int(1, 20) == 1 {
			nameLen.AppendNull()
		} else {
			nameLen.AppendFloat(float64(g.faker.Int(5, 70)))
		}
		if g.faker.Int(1, 20) == 1 {
			descLen.AppendNull()
		} else {
			descLen.AppendFloat(float64(g.faker.Int(50, 3000)))
		}
		if g.faker.Int(1, 20) == 1 {
			photos.AppendNull()
		} else {
			photos.AppendInt(g.faker.Int64(1, 8))
		}
		weight[i] = g.faker.Int64(50, 30000)
		length[i] = g.faker.Int64(5, 100)
		height[i] = g.faker.Int64(2, 80)
		width[i] = g.faker.Int64(5, 80)
	}
	t, _ := table.New("products",
		table.NewString("product_id", ids),
		category.Finish(),
		nameLen.Finish(),
		descLen.Finish(),
		photos.Finish(),
		table.NewInt("product_weight_g", weight),
		table.NewInt("product_length_cm", length),
		table.NewInt("product_height_cm", height),
		table.NewInt("product_width_cm", width),
	)
	return t, ids
}

func (g *Generator) customers(n, nUnique int, zips *[]int64) (*table.Table, []string) {
	uniqueIDs := make([]string, nUnique)
	for i := range uniqueIDs {
		uniqueIDs[i] = g.faker.HexID()
	}
	ids := make([]string, n)
	unique := make([]string, n)
	zipCol := make([]int64, n)
	cities := make([]string, n)
	states := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = g.faker.HexID()
		unique[i] = Choose(g.faker, uniqueIDs)
		zipCol[i] = g.faker.Int64(1000, 99999)
		*zips = append(*zips, zipCol[i])
		cities[i] = g.faker.City()
		states[i] = g.faker.State()
	}
	t, _ := table.New("customers",
		table.NewString("customer_id", ids),
		table.NewString("customer_unique_id", unique),
		table.NewInt("customer_zip_code_prefix", zipCol),
		table.NewString("customer_city", cities),
		table.NewString("customer_state", states),
	)
	return t, ids
}

type sampleOrder struct {
	id        string
	purchase  time.Time
	delivered time.Time
	isDone    bool
}

func (g *Generator) orders(n int, customerIDs []string) (*table.Table, []sampleOrder) {
	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)

	info := make([]sampleOrder, n)
	ids := make([]string, n)
	custs := make([]string, n)
	statuses := make([]string, n)
	purchase := make([]time.Time, n)
	approved := table.NewBuilder("order_approved_at", table.Time)
	carrier := table.NewBuilder("order_delivered_carrier_date", table.Time)
	delivered := table.NewBuilder("order_delivered_customer_date", table.Time)
	estimated := make([]time.Time, n)

	for i := 0; i < n; i++ {
		ids[i] = g.faker.HexID()
		custs[i] = customerIDs[i]
		statuses[i] = Choose(g.faker, orderStatuses)
		purchase[i] = g.faker.DateRange(start, end)
		approved.AppendTime(purchase[i].Add(time.Duration(g.faker.Int(1, 48)) * time.Hour))
		estimated[i] = purchase[i].AddDate(0, 0, g.faker.Int(15, 45))

		info[i] = sampleOrder{id: ids[i], purchase: purchase[i]}
		if statuses[i] == "delivered" {
			carrier.AppendTime(purchase[i].AddDate(0, 0, g.faker.Int(1, 5)))
			d := purchase[i].AddDate(0, 0, g.faker.Int(2, 30)).
				Add(time.Duration(g.faker.Int(0, 23)) * time.Hour)
			delivered.AppendTime(d)
			info[i].delivered = d
			info[i].isDone = true
		} else {
			carrier.AppendNull()
			delivered.AppendNull()
		}
	}

	t, _ := table.New("orders",
		table.NewString("order_id", ids),
		table.NewString("customer_id", custs),
		table.NewString("order_status", statuses),
		table.NewTime("order_purchase_timestamp", purchase),
		approved.Finish(),
		carrier.Finish(),
		delivered.Finish(),
		table.NewTime("order_estimated_delivery_date", estimated),
	)
	return t, info
}

func (g *Generator) orderItems(orders []sampleOrder, productIDs, sellerIDs []string) *table.Table {
	orderID := table.NewBuilder("order_id", table.String)
	itemID := table.NewBuilder("order_item_id", table.Int)
	productID := table.NewBuilder("product_id", table.String)
	sellerID := table.NewBuilder("seller_id", table.String)
	shipLimit := table.NewBuilder("shipping_limit_date", table.Time)
	price := table.NewBuilder("price", table.Float)
	freight := table.NewBuilder("freight_value", table.Float)

	for _, o := range orders {
		items := g.faker.Int(1, 3)
		for j := 1; j <= items; j++ {
			orderID.AppendString(o.id)
			itemID.AppendInt(int64(j))
			productID.AppendString(Choose(g.faker, productIDs))
			sellerID.AppendString(Choose(g.faker, sellerIDs))
			shipLimit.AppendTime(o.purchase.AddDate(0, 0, g.faker.Int(3, 10)))
			price.AppendFloat(round2(g.faker.Price(10, 500)))
			freight.AppendFloat(round2(g.faker.Price(5, 60)))
		}
	}

	t, _ := table.New("order_items",
		orderID.Finish(), itemID.Finish(), productID.Finish(),
		sellerID.Finish(), shipLimit.Finish(), price.Finish(), freight.Finish(),
	)
	return t
}

func (g *Generator) payments(orders []sampleOrder) *table.Table {
	orderID := table.NewBuilder("order_id", table.String)
	sequential := table.NewBuilder("payment_sequential", table.Int)
	payType := table.NewBuilder("payment_type", table.String)
	installments := table.NewBuilder("payment_installments", table.Int)
	value := table.NewBuilder("payment_value", table.Float)

	types := []string{"credit_card", "credit_card", "boleto", "voucher", "debit_card"}
	for _, o := range orders {
		n := g.faker.Int(1, 2)
		for j := 1; j <= n; j++ {
			orderID.AppendString(o.id)
			sequential.AppendInt(int64(j))
			// Occasional nulls and zeros exercise the payment defaults.
			if g.faker.Int(1, 25) == 1 {
				payType.AppendNull()
			} else {
				payType.AppendString(Choose(g.faker, types))
			}
			installments.AppendInt(g.faker.Int64(0, 10))
			value.AppendFloat(round2(g.faker.Price(10, 600)))
		}
	}

	t, _ := table.New("order_payments",
		orderID.Finish(), sequential.Finish(), payType.Finish(),
		installments.Finish(), value.Finish(),
	)
	return t
}

func (g *Generator) reviews(orders []sampleOrder) *table.Table {
	reviewID := table.NewBuilder("review_id", table.String)
	orderID := table.NewBuilder("order_id", table.String)
	score := table.NewBuilder("review_score", table.Int)
	title := table.NewBuilder("review_comment_title", table.String)
	message := table.NewBuilder("review_comment_message", table.String)
	created := table.NewBuilder("review_creation_date", table.Time)
	answered := table.NewBuilder("review_answer_timestamp", table.Time)

	for _, o := range orders {
		if g.faker.Int(1, 10) > 7 {
			continue
		}
		reviewID.AppendString(g.faker.HexID())
		orderID.AppendString(o.id)
		score.AppendInt(g.faker.Int64(1, 5))
		if g.faker.Int(1, 3) == 1 {
			title.AppendString(g.faker.Sentence(3))
		} else {
			title.AppendNull()
		}
		if g.faker.Int(1, 2) == 1 {
			message.AppendString(g.faker.Sentence(12))
		} else {
			message.AppendNull()
		}
		c := o.purchase.AddDate(0, 0, g.faker.Int(3, 40))
		created.AppendTime(c)
		if g.faker.Int(1, 4) > 1 {
			answered.AppendTime(c.Add(time.Duration(g.faker.Int(1, 120)) * time.Hour))
		} else {
			answered.AppendNull()
		}
	}

	t, _ := table.New("order_reviews",
		reviewID.Finish(), orderID.Finish(), score.Finish(), title.Finish(),
		message.Finish(), created.Finish(), answered.Finish(),
	)
	return t
}

func (g *Generator) geolocation(zips []int64) *table.Table {
	prefix := table.NewBuilder("geolocation_zip_code_prefix", table.Int)
	lat := table.NewBuilder("geolocation_lat", table.Float)
	lng := table.NewBuilder("geolocation_lng", table.Float)
	city := table.NewBuilder("geolocation_city", table.String)
	state := table.NewBuilder("geolocation_state", table.String)

	for _, zip := range zips {
		// A few coordinate readings per prefix, averaged downstream.
		n := g.faker.Int(1, 3)
		for j := 0; j < n; j++ {
			prefix.AppendInt(zip)
			lat.AppendFloat(g.faker.Float64(-33.7, 5.2))
			lng.AppendFloat(g.faker.Float64(-73.9, -34.8))
			city.AppendString(g.faker.City())
			state.AppendString(g.faker.State())
		}
	}

	t, _ := table.New("geolocation",
		prefix.Finish(), lat.Finish(), lng.Finish(), city.Finish(), state.Finish(),
	)
	return t
}

func (g *Generator) categoryTranslations() *table.Table {
	names := make([]string, len(sampleCategories))
	english := make([]string, len(sampleCategories))
	for i, c := range sampleCategories {
		names[i] = c[0]
		english[i] = c[1]
	}
	t, _ := table.New("category_translation",
		table.NewString("product_category_name", names),
		table.NewString("product_category_name_english", english),
	)
	return t
}
