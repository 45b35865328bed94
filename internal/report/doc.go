// Package report renders bulb reports.
//
// Three renderers share one DeviceReport: the detailed text of --print,
// the compact --status text, and the JSON array of --json. The JSON
// document of a single bulb is also what Publisher sends to MQTT for
// --publish. Values that were never read, or that the bulb refused to
// report, print as n/a and encode as null.
package report
