package event_bus

const (
	ClassroomConnectedEvent    EventType = "classroom.connected"
	ClassroomDisconnectedEvent EventType = "classroom.disconnected"
)

// ClassroomConnected is published when the OAuth callback stores a new token
// for a user.
type ClassroomConnected struct {
	UserId int
}

// ClassroomDisconnected is published when a user revokes the Google Classroom
// connection.
type ClassroomDisconnected struct {
	UserId int
}
