package kismet

// Datasource is one capture interface as reported by the server.
// Field tags follow Kismet's flattened JSON key names.
type Datasource struct {
	Name       string `json:"kismet.datasource.name"`
	UUID       string `json:"kismet.datasource.uuid"`
	Channel    string `json:"kismet.datasource.channel"`
	NumPackets int64  `json:"kismet.datasource.num_packets"`
}

// setChannelCommand is the payload for a set_channel.cmd request.
type setChannelCommand struct {
	Channel string `json:"channel"`
}
