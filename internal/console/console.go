package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"anticafe-backend/internal/billing"
	"anticafe-backend/internal/parse"
	"anticafe-backend/internal/stats"
)

// Menu choices.
const (
	choiceExit = iota
	choiceOccupy
	choiceRelease
	choiceCurrent
	choiceArchive
	choicePrice
	choiceStatus
)

// errInputClosed ends the loop when stdin is exhausted.
var errInputClosed = errors.New("input closed")

// Console is the interactive text menu. It only formats; all decisions happen in the services.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	venue    *billing.Service
	stats    *stats.Service
	currency string
	log      *zap.Logger
}

// New creates a console reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, venue *billing.Service, statsSvc *stats.Service, currency string, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		in:       bufio.NewReader(in),
		out:      out,
		venue:    venue,
		stats:    statsSvc,
		currency: currency,
		log:      logger.Named("console"),
	}
}

// Run processes commands until the user exits or the input ends.
func (c *Console) Run(ctx context.Context) error {
	c.log.Info("console started")
	defer c.log.Info("console stopped")

	c.println("=== Anticafe table management ===")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printMenu()

		line, err := c.readLine()
		if errors.Is(err, errInputClosed) {
			c.println("Shutting down...")
			return nil
		}
		if err != nil {
			return err
		}

		choice, err := parse.MenuChoice(line)
		if err != nil {
			c.log.Warn("non-numeric menu input", zap.String("input", line))
			c.println("Error: enter a number!")
			continue
		}

		if choice == choiceExit {
			c.println("Shutting down...")
			return nil
		}
		if err := c.dispatch(ctx, choice); err != nil {
			if errors.Is(err, errInputClosed) {
				c.println("Shutting down...")
				return nil
			}
			return err
		}
	}
}

func (c *Console) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case choiceOccupy:
		return c.occupy()
	case choiceRelease:
		return c.release(ctx)
	case choiceCurrent:
		c.showCurrent()
	case choiceArchive:
		return c.showArchive(ctx)
	case choicePrice:
		return c.changePrice()
	case choiceStatus:
		c.showStatus()
	default:
		c.println("Unknown choice. Try again.")
	}
	return nil
}

func (c *Console) printMenu() {
	c.println("")
	c.println("--- MAIN MENU ---")
	c.println("1. Seat guests at a table")
	c.println("2. Release a table")
	c.println("3. Current statistics")
	c.println("4. Archive statistics")
	c.println("5. Change price per minute")
	c.println("6. Show status of all tables")
	c.println("0. Exit")
	c.printf("Choose an action: ")
}

// readLine returns the next line without its terminator. Lines of any length are
// accepted; a final line without a newline is still returned before errInputClosed.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return "", errInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readTableNumber prompts until the line parses or the input ends.
// A malformed entry is reported and aborts the action.
func (c *Console) readTableNumber(prompt string) (int, bool, error) {
	c.printf("%s (1-%d): ", prompt, c.venue.TotalTables())
	line, err := c.readLine()
	if err != nil {
		return 0, false, err
	}
	n, err := parse.TableNumber(line)
	if err != nil {
		c.println("Error: enter a valid table number!")
		return 0, false, nil
	}
	return n, true, nil
}

func (c *Console) occupy() error {
	c.printf("Free tables: %s\n", joinNumbers(c.venue.FreeTables(), "none"))
	n, ok, err := c.readTableNumber("Enter table number")
	if err != nil || !ok {
		return err
	}

	seated, err := c.venue.OccupyTable(n)
	switch {
	case err != nil:
		c.printf("Error: %v\n", err)
	case seated:
		c.printf("Guests seated at table %d\n", n)
	default:
		c.printf("Table %d is already occupied!\n", n)
	}
	return nil
}

func (c *Console) release(ctx context.Context) error {
	c.printf("Occupied tables: %s\n", joinNumbers(c.venue.OccupiedTables(), "none"))
	n, ok, err := c.readTableNumber("Enter table number to release")
	if err != nil || !ok {
		return err
	}

	cost, err := c.venue.ReleaseTable(ctx, n)
	switch {
	case errors.Is(err, billing.ErrInvalidTableNumber):
		c.printf("Error: %v\n", err)
	case err != nil:
		c.log.Error("release failed", zap.Int("table", n), zap.Error(err))
		c.printf("Error: %v. Table %d is still occupied.\n", err, n)
	case cost.Equal(billing.NotOccupied):
		c.printf("Table %d is already free!\n", n)
	default:
		c.printf("Table %d released. To pay: %s %s\n", n, cost.StringFixed(2), c.currency)
	}
	return nil
}

func (c *Console) showCurrent() {
	c.log.Info("current statistics requested")
	cur := c.stats.Current()

	c.println("")
	c.println("=== CURRENT STATISTICS ===")
	c.printf("Price per minute: %s %s\n", cur.PricePerMinute.StringFixed(2), c.currency)
	c.printf("Occupied tables: %d of %d\n", cur.OccupiedCount, cur.TotalTables)
	c.println("")
	c.println("Occupied tables:")
	if len(cur.Occupied) == 0 {
		c.println("  No occupied tables")
	}
	for _, st := range cur.Occupied {
		c.printf("  Table %d: %d min, to pay: %s %s\n", st.Number, st.BilledMinutes, st.Cost.StringFixed(2), c.currency)
	}
	c.println("")
	c.printf("Total if everyone left now: %s %s\n", cur.ProjectedTotal.StringFixed(2), c.currency)
}

func (c *Console) showArchive(ctx context.Context) error {
	c.log.Info("archive statistics requested")
	a, err := c.stats.Archive(ctx)
	if err != nil {
		c.log.Error("archive statistics failed", zap.Error(err))
		c.printf("Error: %v\n", err)
		return nil
	}

	c.println("")
	c.println("=== ARCHIVE STATISTICS ===")
	c.printf("Total earnings: %s %s\n", a.TotalEarnings.StringFixed(2), c.currency)
	c.printf("Average occupation time: %.1f min\n", a.AverageMinutes)
	if a.MostPopularTable != stats.NoTable {
		c.printf("Most popular table: %d (chosen %d times)\n", a.MostPopularTable, a.MostPopularVisits)
	} else {
		c.println("Most popular table: no data")
	}
	if a.MostProfitableTable != stats.NoTable {
		c.printf("Most profitable table: %d (earned %s %s)\n", a.MostProfitableTable, a.MostProfitableTotal.StringFixed(2), c.currency)
	} else {
		c.println("Most profitable table: no data")
	}
	c.printf("Total visits: %d\n", a.TotalVisits)

	if len(a.Recent) > 0 {
		c.println("")
		c.println("--- Recent visits ---")
		for _, r := range a.Recent {
			c.printf("  Table %d: %s - %s (%d min, %s %s)\n",
				r.TableNumber,
				r.StartTime.Format("15:04:05"),
				r.EndTime.Format("15:04:05"),
				r.DurationMinutes,
				r.TotalCost.StringFixed(2),
				c.currency)
		}
	}
	return nil
}

func (c *Console) changePrice() error {
	c.printf("Current price: %s %s/min\n", c.venue.PricePerMinute().StringFixed(2), c.currency)
	c.printf("Enter new price per minute: ")
	line, err := c.readLine()
	if err != nil {
		return err
	}

	price, err := parse.Price(line)
	if err != nil {
		c.println("Error: enter a valid number!")
		return nil
	}
	if err := c.venue.SetPricePerMinute(price); err != nil {
		c.printf("Error: %v\n", err)
		return nil
	}
	c.printf("Price changed to %s %s/min\n", price.StringFixed(2), c.currency)
	return nil
}

func (c *Console) showStatus() {
	c.println("")
	c.println("=== TABLE STATUS ===")
	for _, st := range c.stats.Statuses() {
		if !st.Occupied {
			c.printf("Table %2d: free\n", st.Number)
			continue
		}
		c.printf("Table %2d: OCCUPIED (%d min %d sec, %s %s)\n",
			st.Number, st.BilledMinutes, st.Seconds, st.Cost.StringFixed(2), c.currency)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func joinNumbers(numbers []int, empty string) string {
	if len(numbers) == 0 {
		return empty
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
