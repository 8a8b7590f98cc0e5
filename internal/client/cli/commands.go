package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/safescan/internal/client/config"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/client/scanner"
	"github.com/dmitrijs2005/safescan/internal/client/services"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.println("Usage:", text)
	return errUsage
}

// Scan starts the camera. Decoded barcodes are looked up in the background.
func (a *App) Scan(ctx context.Context) error {
	started, err := a.scanner.Acquire(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if !started {
		switch a.scanner.State() {
		case scanner.Captured:
			a.println("A barcode was just captured; wait for its lookup.")
		case scanner.Idle:
			a.println("Camera start was cancelled.")
		default:
			a.println("Camera is already running.")
		}
		return nil
	}
	a.println("Camera started. Point it at a barcode ('stop' to cancel).")
	return nil
}

func (a *App) Stop(_ context.Context) error {
	a.scanner.Stop()
	a.println("Camera stopped.")
	return nil
}

// Lookup resolves a manually entered barcode. Without an argument the user
// is prompted for it.
func (a *App) Lookup(ctx context.Context, args []string) error {
	var barcode string
	if len(args) > 0 {
		barcode = args[0]
	} else {
		b, err := GetSimpleText(a.reader, "Enter barcode", a.out)
		if err != nil {
			return err
		}
		barcode = b
	}
	outcome, err := a.checks.Lookup(ctx, barcode)
	a.showOutcome(outcome, err)
	return err
}

// showOutcome renders a lookup result. It is also the scanner's handler.
func (a *App) showOutcome(o *services.ScanOutcome, err error) {
	if err != nil {
		a.report(err)
		return
	}
	a.setLastOutcome(o)
	if o.NotFound {
		a.printf("%s", renderNotFound(o))
		return
	}
	a.printf("%s", renderProduct(*o.Product))
	a.println("Type 'check' to check the ingredients against your profile.")
}

func (a *App) Pick(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("pick <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return a.usage("pick <n>")
	}
	last := a.lastOutcome()
	if last == nil || !last.NotFound {
		a.println("Nothing to pick from. Look up an unknown barcode first.")
		return nil
	}
	outcome, err := a.checks.LookupSimilar(ctx, last, n-1)
	a.showOutcome(outcome, err)
	return err
}

// Check runs the ingredient check of the last found product.
func (a *App) Check(ctx context.Context) error {
	last := a.lastOutcome()
	if last == nil || last.Pending == nil {
		a.println("Nothing to check. Scan or look up a product first.")
		return nil
	}
	report, err := last.Pending.Run(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("%s", renderCheck(report))
	return nil
}

// History lists the active profile's scans, or everything with "all".
func (a *App) History(_ context.Context, args []string) error {
	profileID := a.profiles.Active().ID
	if len(args) > 0 && args[0] == "all" {
		profileID = ""
	}
	a.printf("%s", renderHistory(a.history.History(profileID)))
	return nil
}

func (a *App) Alerts(_ context.Context) error {
	a.printf("%s", renderNotifications(a.history.Notifications()))
	return nil
}

func (a *App) Profiles(_ context.Context) error {
	a.printf("%s", renderProfiles(a.profiles.Snapshot()))
	return nil
}

func (a *App) Use(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("use <id>")
	}
	if err := a.profiles.SwitchActive(ctx, models.ProfileID(args[0])); err != nil {
		a.report(err)
		return err
	}
	a.println("Active profile:", a.profiles.Active().Name)
	return nil
}

func (a *App) NewProfile(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Profile name", a.out)
	if err != nil {
		return err
	}
	allergies, err := GetList(a.reader, "Allergies", a.out)
	if err != nil {
		return err
	}
	restrictions, err := GetList(a.reader, "Dietary restrictions", a.out)
	if err != nil {
		return err
	}
	p, err := a.profiles.Create(ctx, name, allergies, restrictions)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("Created profile %s (id %s). Type 'use %s' to switch to it.\n", p.Name, p.ID, p.ID)
	return nil
}

func (a *App) RemoveProfile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("rmprofile <id>")
	}
	if err := a.profiles.Delete(ctx, models.ProfileID(args[0])); err != nil {
		a.report(err)
		return err
	}
	a.println("Profile deleted. Active profile:", a.profiles.Active().Name)
	return nil
}

func (a *App) Restrictions(_ context.Context) error {
	a.printf("%s", renderRestrictions(a.profiles.Active()))
	return nil
}

// SetRestrictions replaces both sets of the active profile.
func (a *App) SetRestrictions(ctx context.Context) error {
	cur := a.profiles.Active()
	a.printf("Current allergies: %s\n", joinOrNone(cur.Allergies))
	allergies, err := GetList(a.reader, "Allergies", a.out)
	if err != nil {
		return err
	}
	a.printf("Current restrictions: %s\n", joinOrNone(cur.Restrictions))
	restrictions, err := GetList(a.reader, "Dietary restrictions", a.out)
	if err != nil {
		return err
	}
	p, err := a.profiles.SaveRestrictions(ctx, allergies, restrictions)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("%s", renderRestrictions(p))
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Theme:", a.history.Theme())
		return nil
	}
	if err := a.history.SetTheme(ctx, strings.ToLower(args[0])); err != nil {
		a.report(err)
		return err
	}
	a.println("Theme:", a.history.Theme())
	return nil
}

func (a *App) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	st, err := a.client.Health(ctx)
	if err != nil {
		a.setMode(ctx, ModeOffline)
		a.report(err)
		return err
	}
	a.setMode(ctx, ModeOnline)
	a.println("Backend status:", st)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.history.Clear(ctx); err != nil {
		a.report(err)
		return err
	}
	a.println("History and alerts cleared.")
	return nil
}

// Reset wipes every local slot after an explicit confirmation.
func (a *App) Reset(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Type 'yes' to wipe all local data (history, alerts, theme)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Reset cancelled.")
		return nil
	}
	if err := a.history.Reset(ctx); err != nil {
		a.report(err)
		return err
	}
	a.println("Local data wiped.")
	return nil
}

// Storage shows where local state lives and what is stored there.
func (a *App) Storage(ctx context.Context) error {
	where := a.config.StorageScope
	if where == config.ScopeDurable {
		where += " (" + a.config.StorageBackend + ")"
	}
	a.println("Storage:", where)
	sizes, err := a.history.Slots(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printf("%s", renderSlots(sizes))
	return nil
}
