// Package field implements the electrostatic model of the canvas: Coulomb
// superposition of point charges, the scalar potential, hit testing and
// the readout formatting shown by the hosts.
//
// Units are illustrative. Positions are canvas units, magnitudes are
// coulombs and the constant is fixed at 8.99e9.
package field
