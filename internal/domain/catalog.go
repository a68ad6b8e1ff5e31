package domain

// The built-in catalog. Order here is the order List returns.
var catalog = []Domain{
	{
		Name:        "occupancy",
		DisplayName: "Occupancy",
		StateFields: FieldSchema{
			"presence":    {Type: FieldBoolean, Description: "Someone is present in the covered zone"},
			"last_motion": {Type: FieldString, Description: "RFC 3339 timestamp of the last detected motion"},
			"count":       {Type: FieldNumber, Description: "Estimated number of occupants", Min: f(0)},
		},
		// Occupancy sensing is observation only.
		CommandFields: FieldSchema{},
		Features:      []string{"motion_detection", "presence_detection"},
		Roles:         []string{"room_sensor", "entry_sensor"},
	},
	{
		Name:        "safety",
		DisplayName: "Safety",
		StateFields: FieldSchema{
			"smoke_detected": {Type: FieldBoolean, Description: "Smoke currently detected"},
			"co_detected":    {Type: FieldBoolean, Description: "Carbon monoxide currently detected"},
			"alarm_active":   {Type: FieldBoolean, Description: "Audible alarm is sounding"},
			"battery_level":  {Type: FieldNumber, Description: "Battery charge percentage", Min: f(0), Max: f(100)},
		},
		CommandFields: FieldSchema{
			"alarm_active": {Type: FieldBoolean, Description: "Set false to silence an active alarm"},
		},
		Features: []string{"smoke_detection", "co_detection"},
		Roles:    []string{"main_alarm", "bedroom_alarm"},
	},
	{
		Name:        "water",
		DisplayName: "Water",
		StateFields: FieldSchema{
			"flow_rate":     {Type: FieldNumber, Description: "Current flow in litres per minute", Min: f(0)},
			"leak_detected": {Type: FieldBoolean, Description: "A leak sensor has tripped"},
			"valve_open":    {Type: FieldBoolean, Description: "The valve is open"},
		},
		CommandFields: FieldSchema{
			"valve_open": {Type: FieldBoolean, Description: "Open or close the valve"},
		},
		Features: []string{"leak_detection", "flow_metering"},
		Roles:    []string{"main_valve", "irrigation_valve"},
	},
	{
		Name:        "schedule",
		DisplayName: "Schedule",
		StateFields: FieldSchema{
			"busy":       {Type: FieldBoolean, Description: "An entry is in progress right now"},
			"next_start": {Type: FieldString, Description: "RFC 3339 start of the next upcoming entry"},
		},
		CommandFields: FieldSchema{},
		Features:      []string{"all_day_entries"},
		Roles:         []string{"household_calendar", "bin_collection"},
		Query: &QuerySpec{
			Description: "Entries overlapping a time range, earliest first",
			Params: FieldSchema{
				"start": {Type: FieldString, Description: "RFC 3339 inclusive range start"},
				"end":   {Type: FieldString, Description: "RFC 3339 exclusive range end"},
			},
			ItemFields: FieldSchema{
				"uid":     {Type: FieldString, Description: "Stable entry identifier"},
				"start":   {Type: FieldString, Description: "RFC 3339 entry start"},
				"end":     {Type: FieldString, Description: "RFC 3339 entry end"},
				"title":   {Type: FieldString, Description: "Human-readable summary"},
				"all_day": {Type: FieldBoolean, Description: "Entry covers whole days"},
			},
		},
	},
	{
		Name:        "climate",
		DisplayName: "Climate",
		StateFields: FieldSchema{
			"temperature": {Type: FieldNumber, Description: "Measured temperature in celsius", Min: f(-50), Max: f(150)},
			"humidity":    {Type: FieldNumber, Description: "Relative humidity percentage", Min: f(0), Max: f(100)},
			"setpoint":    {Type: FieldNumber, Description: "Target temperature in celsius", Min: f(5), Max: f(35)},
			"mode":        {Type: FieldString, Description: "Operating mode (off, heat, cool, auto)"},
		},
		CommandFields: FieldSchema{
			"setpoint": {Type: FieldNumber, Description: "Target temperature in celsius", Min: f(5), Max: f(35)},
			"mode":     {Type: FieldString, Description: "Operating mode (off, heat, cool, auto)"},
		},
		Features: []string{"heating", "cooling"},
		Roles:    []string{"primary_thermostat", "zone_thermostat"},
	},
	{
		Name:        "gate",
		DisplayName: "Gate",
		StateFields: FieldSchema{
			"open":       {Type: FieldBoolean, Description: "The gate is fully open"},
			"locked":     {Type: FieldBoolean, Description: "The gate is locked"},
			"obstructed": {Type: FieldBoolean, Description: "Obstruction detected during the last movement"},
		},
		CommandFields: FieldSchema{
			"open":   {Type: FieldBoolean, Description: "Open or close the gate"},
			"locked": {Type: FieldBoolean, Description: "Engage or release the lock"},
		},
		Features: []string{"auto_close", "obstruction_detection"},
		Roles:    []string{"driveway_gate", "garden_gate"},
	},
}

// byName is built once at init; the catalog never changes afterwards.
var byName = func() map[string]Domain {
	m := make(map[string]Domain, len(catalog))
	for _, d := range catalog {
		if _, dup := m[d.Name]; dup {
			panic("domain: duplicate domain name " + d.Name)
		}
		m[d.Name] = d
	}
	return m
}()

// Get returns the domain with the given name.
func Get(name string) (Domain, bool) {
	d, ok := byName[name]
	return d, ok
}

// List returns all domains in catalog order. The returned slice is a copy;
// the Domain values it holds share the catalog's schema maps and must not
// be mutated.
func List() []Domain {
	out := make([]Domain, len(catalog))
	copy(out, catalog)
	return out
}

// f is shorthand for the optional range bounds in the catalog literals.
func f(v float64) *float64 { return &v }
