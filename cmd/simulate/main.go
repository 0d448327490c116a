package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"pokertable-server/internal/config"
	"pokertable-server/internal/simulate"
	"pokertable-server/pkg/playable/poker/holdem"
	"pokertable-server/pkg/room"
)

type CLI struct {
	Players  int    `default:"6" help:"Number of bots at the table"`
	Hands    int    `default:"1000" help:"Number of hands to play"`
	Seed     int64  `default:"0" help:"RNG seed of the bots (0 for random)"`
	Strategy string `default:"random" help:"Bot strategy: ${strategies}"`
	Subtype  string `default:"holdem" help:"Game subtype: holdem, omaha, short-deck, short-deck-classic"`
	BuyIn    int    `default:"5000" help:"Buy-in of a seat"`

	AnteLevels   []int `help:"Ante escalation levels as multiples of the small blind"`
	BombPotEvery int   `help:"Deal a bomb pot every N hands (0 disables)"`
	DoubleBoard  bool  `help:"Deal two boards"`
	HiLow        bool  `help:"Split the pots between high and low hands"`
	SevenDeuce   int   `help:"Bonus each player pays to a winning 7-2 (0 disables)"`

	Verbose bool `short:"v" help:"Verbose logging"`
}

func (c *CLI) Run() error {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if c.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	strategy, err := simulate.StrategyFromString(c.Strategy)
	if err != nil {
		return err
	}

	tableCfg := config.Default().Table
	tableCfg.Subtype = c.Subtype
	tableCfg.BuyIn = c.BuyIn
	tableCfg.InterHandDelay = 0
	tableCfg.BetTimeout = holdem.NoBetTimeout
	tableCfg.RevealDelay = 0
	tableCfg.Modifiers.AnteLevels = c.AnteLevels
	tableCfg.Modifiers.BombPotEvery = c.BombPotEvery
	tableCfg.Modifiers.DoubleBoard = c.DoubleBoard
	tableCfg.Modifiers.HiLow = c.HiLow
	tableCfg.Modifiers.SevenDeuce = c.SevenDeuce

	opts, err := room.OptionsFromConfig("Simulation", tableCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	began := time.Now()
	report, err := simulate.Run(ctx, logger, simulate.Config{
		Players:  c.Players,
		Hands:    c.Hands,
		Seed:     c.Seed,
		Strategy: strategy,
		Options:  opts,
	})
	if report != nil {
		printReport(report, time.Since(began))
	}

	return err
}

func printReport(report *simulate.Report, elapsed time.Duration) {
	fmt.Printf("table %s, seed %d\n", report.TableID, report.Seed)
	fmt.Printf("%d hands in %s, %d showdowns, %d aborted\n\n", report.Hands, elapsed.Round(time.Millisecond), report.Showdowns, report.Aborted)

	fmt.Printf("%-4s %-24s %10s %10s\n", "id", "name", "bankroll", "delta")
	fmt.Println(strings.Repeat("-", 51))
	for _, r := range report.Results {
		fmt.Printf("%-4d %-24s %10d %+10d\n", r.UserID, r.Name, r.Bankroll, r.Delta)
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Plays a table with bots in memory and checks that the chips add up"),
		kong.UsageOnError(),
		kong.Vars{
			"strategies": strings.Join(simulate.StrategyNames(), ", "),
		},
	)
	ctx.FatalIfErrorf(ctx.Run())
}
