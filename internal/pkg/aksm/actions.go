package aksm

import "github.com/samber/lo"

// Command actions understood by AK-SM controllers. The device
// vocabulary is larger than anything this package interprets; the
// constants below are the documented set, used for CLI hints and the
// dashboard panels. Unknown actions still encode and send fine.
const (
	// Alarms
	ActionReadGenericAlarms = "read_generic_alarms"
	ActionReadDeviceAlarms  = "read_device_alarms"
	ActionAlarmSummary      = "alarm_summary"
	ActionAlarmDetail       = "alarm_detail"
	ActionWriteAlarmAck     = "write_alarm_ack"
	ActionWriteAlarmClear   = "write_alarm_clear"

	// Reads
	ActionReadVal           = "read_val"
	ActionReadUnits         = "read_units"
	ActionReadParmInfo      = "read_parm_info"
	ActionReadParmLimits    = "read_parm_limits"
	ActionReadDeviceInfo    = "read_device_info"
	ActionReadDevices       = "read_devices"
	ActionReadControllers   = "read_controllers"
	ActionReadMeters        = "read_meters"
	ActionReadMeter         = "read_meter"
	ActionReadMenu          = "read_menu"
	ActionReadMenuInfo      = "read_menu_info"
	ActionReadMenuGroups    = "read_menu_groups"
	ActionReadDeviceSummary = "read_device_summary"

	// Schedules
	ActionScheduleSummary    = "schedule_summary"
	ActionScheduleDetail     = "schedule_detail"
	ActionReadStoreSchedule  = "read_store_schedule"
	ActionWriteStoreSchedule = "write_store_schedule"
	ActionSetStoreTime       = "set_store_time"

	// HVAC
	ActionReadHvacService  = "read_hvac_service"
	ActionSetHvacService   = "set_hvac_service"
	ActionReadHvacs        = "read_hvacs"
	ActionReadHvacUnit     = "read_hvac_unit"
	ActionWriteHvacUnit    = "write_hvac_unit"
	ActionWriteHvacSetback = "write_hvac_setback"

	// Lighting
	ActionReadLighting      = "read_lighting"
	ActionReadLightingZone  = "read_lighting_zone"
	ActionSetZoneOverride   = "set_zone_override"
	ActionWriteLightingZone = "write_lighting_zone"

	// Holidays
	ActionReadHolidays    = "read_holidays"
	ActionWriteHolidaySch = "write_holiday_sch"

	// Refrigeration
	ActionSetOffset        = "set_offset"
	ActionReadSuctionGroup = "read_suction_group"
	ActionSetSuctionGroup  = "set_suction_group"
	ActionReadCircuit      = "read_circuit"
	ActionSetCircuit       = "set_circuit"
	ActionReadCondenser    = "read_condenser"
	ActionSetCondenser     = "set_condenser"

	// I/O
	ActionReadInputs      = "read_inputs"
	ActionReadRelays      = "read_relays"
	ActionReadAlarmRelays = "read_alarm_relays"
	ActionReadSensors     = "read_sensors"
	ActionReadVarOuts     = "read_var_outs"
	ActionReadInput       = "read_input"
	ActionReadRelay       = "read_relay"
	ActionReadSensor      = "read_sensor"
	ActionReadVarOut      = "read_var_out"

	// Monitoring
	ActionReadMonitorSummary = "read_monitor_summary"
	ActionReadMonitorDetail  = "read_monitor_detail"
	ActionSetMonitorPoint    = "set_monitor_point"

	// History
	ActionReadHistory          = "read_history"
	ActionReadHistoryCfg       = "read_history_cfg"
	ActionReadDeviceHistoryCfg = "read_device_history_cfg"
	ActionStartHistoryQuery    = "start_history_query"
	ActionReadQueryStatus      = "read_query_status"
	ActionReadQueryData        = "read_query_data"
	ActionAbortQuery           = "abort_query"

	// Writes
	ActionWriteDigiOp = "write_digi_op"
	ActionWriteVal    = "write_val"

	// Controls
	ActionSetDefrost      = "set_defrost"
	ActionSetLight        = "set_light"
	ActionSetMainSwitch   = "set_main_switch"
	ActionSetCleaning     = "set_cleaning"
	ActionSetNightSetback = "set_night_setback"
	ActionSetShutdown     = "set_shutdown"

	// System
	ActionReadSystemStatus = "read_system_status"
	ActionReadLicenseData  = "read_license_data"
)

// Node types the device addresses controllers and sub-units with.
const (
	NodeTypeAK2Controller = 16
	NodeTypeEKCController = 17
	NodeTypeSuctionGroup  = 32
	NodeTypeCircuit       = 33
	NodeTypeCondenser     = 34
)

var knownActions = []string{
	ActionReadGenericAlarms, ActionReadDeviceAlarms, ActionAlarmSummary,
	ActionAlarmDetail, ActionWriteAlarmAck, ActionWriteAlarmClear,
	ActionReadVal, ActionReadUnits, ActionReadParmInfo, ActionReadParmLimits,
	ActionReadDeviceInfo, ActionReadDevices, ActionReadControllers,
	ActionReadMeters, ActionReadMeter, ActionReadMenu, ActionReadMenuInfo,
	ActionReadMenuGroups, ActionReadDeviceSummary,
	ActionScheduleSummary, ActionScheduleDetail, ActionReadStoreSchedule,
	ActionWriteStoreSchedule, ActionSetStoreTime,
	ActionReadHvacService, ActionSetHvacService, ActionReadHvacs,
	ActionReadHvacUnit, ActionWriteHvacUnit, ActionWriteHvacSetback,
	ActionReadLighting, ActionReadLightingZone, ActionSetZoneOverride,
	ActionWriteLightingZone,
	ActionReadHolidays, ActionWriteHolidaySch,
	ActionSetOffset, ActionReadSuctionGroup, ActionSetSuctionGroup,
	ActionReadCircuit, ActionSetCircuit, ActionReadCondenser, ActionSetCondenser,
	ActionReadInputs, ActionReadRelays, ActionReadAlarmRelays,
	ActionReadSensors, ActionReadVarOuts, ActionReadInput, ActionReadRelay,
	ActionReadSensor, ActionReadVarOut,
	ActionReadMonitorSummary, ActionReadMonitorDetail, ActionSetMonitorPoint,
	ActionReadHistory, ActionReadHistoryCfg, ActionReadDeviceHistoryCfg,
	ActionStartHistoryQuery, ActionReadQueryStatus, ActionReadQueryData,
	ActionAbortQuery,
	ActionWriteDigiOp, ActionWriteVal,
	ActionSetDefrost, ActionSetLight, ActionSetMainSwitch, ActionSetCleaning,
	ActionSetNightSetback, ActionSetShutdown,
	ActionReadSystemStatus, ActionReadLicenseData,
}

// KnownActions returns the documented action vocabulary.
func KnownActions() []string {
	out := make([]string, len(knownActions))
	copy(out, knownActions)
	return out
}

// IsKnownAction reports whether action is in the documented vocabulary.
func IsKnownAction(action string) bool {
	return lo.Contains(knownActions, action)
}
