// Package host defines what the put engine needs from the application
// embedding it, plus reference implementations of the optional parts.
//
// Editor is mandatory and covers text, carets, range markers and the
// write section. Indenter and RichPaster are optional delegates:
//
//   - NopIndenter and DocumentIndenter are plain Go indenters.
//   - LuaDelegate serves both roles from a sandboxed Lua script.
//
// SystemClipboard backs the "+" and "*" registers with the operating
// system clipboard.
package host
