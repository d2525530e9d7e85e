package wm

// Output describes a monitor and its logical geometry.
type Output struct {
	ID              OutputID      `json:"id"`
	Name            string        `json:"name"`
	Geometry        Geometry      `json:"geometry"`
	Scale           float64       `json:"scale"`
	RefreshRate     uint32        `json:"refresh_rate"`
	Workspaces      []WorkspaceID `json:"workspaces,omitempty"`
	ActiveWorkspace WorkspaceID   `json:"active_workspace,omitempty"`
}
