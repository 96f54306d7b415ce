// Package legacy decodes the legacy measurement configuration, a YAML
// document whose measures_config key maps family codes to family
// definitions.
//
// # Document Overview
//
//	measures_config:
//	  Length:
//	    standard: METER
//	    units:
//	      MILLIMETER:
//	        convert: [{mul: 0.001}]
//	        symbol: mm
//	      METER:
//	        convert: [{mul: 1}]
//	        symbol: m
//
// The document is walked as yaml.Node trees rather than decoded into Go maps,
// so family, unit and operation order is the order of the file.
package legacy
