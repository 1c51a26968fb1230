package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skecho/skecho-client/internal/api"
	"github.com/skecho/skecho-client/internal/cart"
	"github.com/skecho/skecho-client/internal/config"
	"github.com/skecho/skecho-client/internal/localstate"
	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/model"
	"github.com/skecho/skecho-client/internal/pricing"
	"github.com/skecho/skecho-client/internal/session"
	"github.com/skecho/skecho-client/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	bearerToken := cfg.Auth.Token
	if bearerToken == "" {
		// No provider token supplied: mint a development token for the
		// local stub server so the demo flow works out of the box.
		bearerToken, err = token.NewManager(cfg.Stub.JWTSecret).Mint(model.Identity{
			UID:   "demo-user",
			Name:  "Demo User",
			Email: "demo@skecho.local",
		})
		if err != nil {
			logger.Fatal("failed to mint development token", "error", err)
		}
		logger.Info("no AUTH_TOKEN set, using development identity", "uid", "demo-user")
	}

	identity, err := token.ParseIdentityUnverified(bearerToken)
	if err != nil {
		logger.Fatal("failed to read identity from token", "error", err)
	}

	flags, err := localstate.Open(ctx, cfg.State.Path, cfg.Session.DegradedTTL)
	if err != nil {
		logger.Fatal("failed to open local state", "error", err)
	}
	defer flags.Close()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, token.StaticSource(bearerToken), logger)
	gate := session.NewGate(client, flags, logger)
	carts := cart.NewSynchronizer(client, gate, cfg.Cart.MirrorTTL, logger)

	logAppVersion()

	gate.Resolve(ctx, identity)
	logger.Info("session resolved",
		"state", gate.State(),
		"buyer_complete", gate.BuyerComplete(),
		"seller_complete", gate.SellerComplete())

	if d := gate.RequireBuyerProfile("/cart"); !d.Allowed() {
		logger.Info("cart view gated", "redirect_to", d.RedirectTo, "return_to", d.ReturnTo)
	}

	if err := carts.Load(ctx); err != nil {
		logger.Error("failed to load cart", "error", err)
	} else {
		logger.Info("cart loaded", "cart_id", carts.CartID(), "total_items", carts.TotalItemCount())
		for _, item := range carts.Items() {
			logger.Info("cart item",
				"item_id", item.ID,
				"product", item.Product.Name,
				"quantity", item.Quantity,
				"unit_price", item.UnitPrice)
		}
	}

	// Quote a sample custom order against the first seller offering
	// custom art, as the order form would.
	if seller, err := client.FetchSeller(ctx, "seller-ayla"); err == nil && seller.DoesCustomArt {
		quote := pricing.Quote(seller.Pricing, seller.Materials, model.CustomOrderDraft{
			Size:     model.SizeA1,
			Material: "Canvas",
			Units:    2,
		})
		logger.Info("sample custom order quote",
			"seller", seller.Name,
			"base", quote.Base,
			"extra", quote.Extra,
			"material", quote.Material,
			"total", quote.Total)
	}

	logger.Info("done")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
