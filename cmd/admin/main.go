package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"pokertable-server/internal/config"
	"pokertable-server/internal/jwt"
	"pokertable-server/pkg/db"
	"pokertable-server/pkg/table"
)

type CLI struct {
	Token    TokenCmd    `cmd:"" help:"Sign an access token for a user"`
	Bankroll BankrollCmd `cmd:"" help:"Show the bankroll and ledger of a user"`
	Config   ConfigCmd   `cmd:"" help:"Print a config file"`
}

type ConfigCmd struct {
	Loaded bool `help:"Print the loaded config instead of the defaults"`
}

func (c *ConfigCmd) Run() error {
	cfg := config.Default()
	if c.Loaded {
		cfg = config.Instance()
	}

	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}

type TokenCmd struct {
	User int64         `arg:"" help:"User id"`
	Name string        `help:"Display name at the tables, random when empty"`
	TTL  time.Duration `default:"24h" help:"Lifetime of the token, 0 never expires"`
}

func (c *TokenCmd) Run() error {
	jwt.LoadKeys()

	signed, err := jwt.Sign(c.User, c.Name, c.TTL)
	if err != nil {
		return err
	}

	fmt.Println(signed)
	return nil
}

type BankrollCmd struct {
	User    int64 `arg:"" help:"User id"`
	Entries bool  `short:"e" help:"List the ledger entries"`
}

func (c *BankrollCmd) Run() error {
	ctx := context.Background()
	ledger := table.NewLedger(db.Instance(), logrus.StandardLogger())

	balance, err := ledger.Bankroll(ctx, c.User)
	if err != nil {
		return err
	}

	fmt.Printf("user %d: %d\n", c.User, balance)
	if !c.Entries {
		return nil
	}

	entries, err := ledger.Entries(ctx, c.User)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s  %-8s %8d  %s\n", e.Created.Format(time.RFC3339), e.Reason, e.Amount, e.TableID)
	}

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable-admin"),
		kong.Description("Administration of the poker table server"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
