package user

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is the slice of the identity subsystem this service needs: who is
// calling, which organization they belong to, and their role in it.
// Authentication itself happens upstream.
type User struct {
	Id             string
	DisplayName    string
	OrganizationId int
	Role           Role
	SlackUserId    string
	SlackTeamId    string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
