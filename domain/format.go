// Package domain contains core concepts of the chat system.
// This file centralizes every outbound line the server emits.
// All lines end with exactly one newline; the prompts and the welcome
// banner are the only fragments sent without a trailing newline.
package domain

import "fmt"

const (
	UsernamePrompt = "Username: "
	PasswordPrompt = "Password: "

	Welcome = "\nWelcome to the Chat Server!\n(use /help for commands)"

	AuthFailedLine     = "Authentication failed\n"
	ServerFullLine     = "Server is full, try again later\n"
	EmptyGroupNameLine = "Group name cannot be empty or whitespace only.\n"
	EmptyGroupMsgLine  = "Group message cannot be empty.\n"
	UnknownCommandLine = "Unknown command or Error in the command. Use /help for commands\n"

	HelpText = "/broadcast <msg>\n" +
		"/msg <user> <msg>\n" +
		"/create_group <name>\n" +
		"/join_group <name>\n" +
		"/leave_group <name>\n" +
		"/group_msg <group> <msg>\n" +
		"/exit\n"
)

func BroadcastLine(sender, text string) string {
	return fmt.Sprintf("[All] %s: %s\n", sender, text)
}

func PrivateLine(sender, text string) string {
	return fmt.Sprintf("[Private] %s: %s\n", sender, text)
}

func GroupLine(group, sender, text string) string {
	return fmt.Sprintf("[Group %s] %s: %s\n", group, sender, text)
}

func JoinedChatLine(username string) string {
	return fmt.Sprintf("*** %s joined the chat ***\n", username)
}

func LeftChatLine(username string) string {
	return fmt.Sprintf("** %s left the chat server **\n", username)
}

func RecipientNotFoundLine(recipient string) string {
	return fmt.Sprintf("User '%s' not found\n", recipient)
}

func AlreadyLoggedInLine(username string) string {
	return fmt.Sprintf("User '%s' is already logged in\n", username)
}

func GroupCreatedLine(group string) string {
	return fmt.Sprintf("Group '%s' created & joined\n", group)
}

func GroupExistsLine(group string) string {
	return fmt.Sprintf("Group '%s' already exists\n", group)
}

func GroupJoinedLine(group string) string {
	return fmt.Sprintf("You joined the group '%s'\n", group)
}

func GroupMissingOnJoinLine(group string) string {
	return fmt.Sprintf("[Error] Group '%s' doesn't exist\n", group)
}

func GroupLeftLine(group string) string {
	return fmt.Sprintf("Left group '%s'\n", group)
}

func NotInGroupLine(group string) string {
	return fmt.Sprintf("Not in group '%s'\n", group)
}

func GroupMissingLine(group string) string {
	return fmt.Sprintf("Group '%s' doesn't exist\n", group)
}

func NotInGroupMsgLine(group string) string {
	return fmt.Sprintf("You're not in group '%s'\n", group)
}
