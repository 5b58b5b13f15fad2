// File: utils/constants.go
package utils

const (
	MaxPlayers = 4 // Seats per room, one per color

	MinPityTarget = 4 // Inclusive bounds of the forced-six threshold
	MaxPityTarget = 6

	DiceFaces = 6

	DefaultPlayerName = "Player"

	// HubMailboxSize is the mailbox capacity of the broadcaster and the room
	// manager, which every connection and room sends to.
	HubMailboxSize = 8192
)
