package discord

import "github.com/bwmarrin/discordgo"

// CommandPath returns the invoked command with its subcommand, e.g.
// "rise up", together with the options of the innermost level.
func CommandPath(data discordgo.ApplicationCommandInteractionData) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	path := data.Name
	opts := data.Options
	for len(opts) == 1 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		path += " " + opts[0].Name
		opts = opts[0].Options
	}
	return path, opts
}

// OptionMap indexes options by name.
func OptionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// StringOption returns the string value of the named option, or "".
func StringOption(m map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := m[name]; ok && o.Type == discordgo.ApplicationCommandOptionString {
		return o.StringValue()
	}
	return ""
}

// IntOption returns the integer value of the named option, or 0.
func IntOption(m map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	if o, ok := m[name]; ok && o.Type == discordgo.ApplicationCommandOptionInteger {
		return int(o.IntValue())
	}
	return 0
}

// UserOption returns the user ID of the named option, or "".
func UserOption(m map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := m[name]; ok && o.Type == discordgo.ApplicationCommandOptionUser {
		if id, ok := o.Value.(string); ok {
			return id
		}
	}
	return ""
}
