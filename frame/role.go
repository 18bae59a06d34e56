package frame

// Role selects which side of a connection the frame parser runs: server
// mode parses request lines and normalizes headers into the environment
// form, client mode parses status lines and case-folds headers, adding
// the two synthetic entries.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}
