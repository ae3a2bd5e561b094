package ui

import (
	"github.com/charmbracelet/huh"
)

// PickSequence asks the user to choose one of names and returns the choice.
// current is preselected when it is one of names.
func PickSequence(names []string, current string) (string, error) {
	choice := current

	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		opt := huh.NewOption(name, name)
		if name == current {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Gap sequence").
				Description("Shellsort applies these gaps from largest to smallest").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}
