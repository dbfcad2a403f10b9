// Package commands defines the metadata attached to registered bot commands.
package commands

import tele "gopkg.in/telebot.v4"

// Command binds a handler to its menu description and visibility flags.
// AdminOnly commands get the allow-list gate when routes are built; Hidden
// ones stay out of the Telegram command menu.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
