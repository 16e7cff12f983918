package common

// DefaultProfilePictureURL is the system avatar assigned to users that did
// not supply one.
const DefaultProfilePictureURL = "https://wsblearnstorage.blob.core.windows.net/avatarcontainer/default_profilepic-3fc14e29-cce0-462a-8081-2a2399da74f2.png"

// Role ids seeded by the initial migration.
const (
	RoleUser  int64 = 1
	RoleAdmin int64 = 2
)
