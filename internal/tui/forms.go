package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/salesops/internal/config"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

// NewRegisterForm asks for the interaction type and, optionally, the
// opportunity that came out of it
func NewRegisterForm(fm *RegisterFormModel, partner string) *huh.Form {
	typeOptions := make([]huh.Option[constants.InteractionType], len(constants.InteractionTypes))
	for i, t := range constants.InteractionTypes {
		typeOptions[i] = huh.NewOption(t.Label(), t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[constants.InteractionType]().
				Title("Interaction with " + partner).
				Options(typeOptions...).
				Value(&fm.Type),
			huh.NewConfirm().
				Title("Opened an opportunity?").
				Value(&fm.Opportunity),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Opportunity value (R$)").
				Placeholder("1.234,56").
				Value(&fm.Value).
				Validate(func(s string) error {
					_, err := models.ParseAmount(s)
					return err
				}),
			huh.NewText().
				Title("Note").
				Value(&fm.Note),
		).WithHideFunc(func() bool { return !fm.Opportunity }),
	).WithTheme(huh.ThemeDracula())
}

// NewFilterForm edits the selection filters. The channel select only
// appears for roles that may cross channels.
func NewFilterForm(fm *FilterFormModel, statuses, triggers []string, channels []models.Channel) *huh.Form {
	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Status").
			Options(labelOptions(statuses)...).
			Value(&fm.Status),
		huh.NewSelect[string]().
			Title("Trigger").
			Options(labelOptions(triggers)...).
			Value(&fm.Trigger),
	}
	if len(channels) > 0 {
		opts := []huh.Option[string]{huh.NewOption("All channels", "")}
		for _, ch := range channels {
			opts = append(opts, huh.NewOption(ch.Name, strconv.Itoa(ch.ID)))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Channel").
			Options(opts...).
			Value(&fm.Channel))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
}

// NewSellerForm picks a seller of the selected channel
func NewSellerForm(fm *SellerFormModel, sellers []models.Seller) *huh.Form {
	opts := []huh.Option[string]{huh.NewOption("All sellers", "")}
	for _, s := range sellers {
		opts = append(opts, huh.NewOption(s.Name, strconv.Itoa(s.ID)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Seller").
				Options(opts...).
				Value(&fm.Seller),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewTriggerForm creates a manual trigger for a partner
func NewTriggerForm(fm *TriggerFormModel, partners []models.Partner) *huh.Form {
	opts := make([]huh.Option[string], len(partners))
	for i, p := range partners {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%d)", p.Name, p.ID), strconv.Itoa(p.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Partner").
				Options(opts...).
				Height(8).
				Value(&fm.PartnerID),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewUploadForm asks for the spreadsheet to upload
func NewUploadForm(fm *UploadFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trigger spreadsheet").
				Description(".xlsx or .csv exported from the CRM").
				Value(&fm.Path).
				Validate(func(s string) error {
					info, err := os.Stat(config.ExpandPath(strings.TrimSpace(s)))
					if err != nil {
						return fmt.Errorf("cannot read %q", s)
					}
					if info.IsDir() {
						return fmt.Errorf("%q is a directory", s)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func labelOptions(labels []string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Any", "")}
	for _, l := range labels {
		opts = append(opts, huh.NewOption(l, l))
	}
	return opts
}
