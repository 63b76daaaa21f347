package influxdb

import "github.com/influxdata/influxdb-client-go/v2/api/write"

// WritePoint queues a prebuilt point. Points written after Close are
// dropped.
func (c *Client) WritePoint(p *write.Point) {
	if p == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}
